package intro

// Popup is the transient hint shown after the welcome speech. Every Show
// starts a new generation; a Hide for an older generation is ignored, so a
// newer popup is never hidden by a timer that belonged to an earlier one.
type Popup struct {
	visible bool
	message string
	gen     int
}

// Show displays msg and returns the generation its hide timer must carry.
func (p *Popup) Show(msg string) int {
	p.gen++
	p.visible = true
	p.message = msg
	return p.gen
}

// Hide hides the popup if gen is the current generation.
func (p *Popup) Hide(gen int) bool {
	if gen != p.gen || !p.visible {
		return false
	}
	p.visible = false
	return true
}

func (p *Popup) Visible() bool   { return p.visible }
func (p *Popup) Message() string { return p.message }
