package input

// NoOp accepts every Actuator call and does nothing.
type NoOp struct{}

var _ Actuator = NoOp{}

func (NoOp) Move(dx, dy int)           {}
func (NoOp) Press(b Button)            {}
func (NoOp) Release(b Button)          {}
func (NoOp) Click(b Button, count int) {}
func (NoOp) Scroll(dx, dy int)         {}
func (NoOp) Type(text string)          {}
func (NoOp) KeyTap(k Key)              {}
