package planner

const (
	MsgNoRoute           = "Please set the route first."
	MsgNavigationStarted = "Navigation started!"
)

// Navigate points the routing plan at its first leg and tells the user. There is
// no guidance behind it: no progress tracking and nothing to cancel.
func (p *Planner) Navigate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == nil {
		p.surface.Alert(MsgNoRoute)
		return false
	}
	p.surface.SetRouteIndex(p.active.Handle, 0)
	p.surface.Alert(MsgNavigationStarted)
	return true
}
