package narramd

// Option configures a Preparer.
type Option func(*Preparer)

// WithPromotion controls whether plain text without any markdown signal is
// heuristically promoted into markdown (default: true).
func WithPromotion(enabled bool) Option {
	return func(p *Preparer) {
		p.promote = enabled
	}
}

// WithHTMLConversion configures whether input that looks like an HTML
// payload is converted to markdown before normalization (default: false).
// Some backends answer in HTML despite being asked for markdown.
func WithHTMLConversion(enabled bool) Option {
	return func(p *Preparer) {
		p.convertHTML = enabled
	}
}
