package engine

import "github.com/pdamaso/cityfall/internal/game"

// OutcomeReport is the outbound report handed to the presentation layer
// after one action resolution: two free-text narrative fields plus the flag
// the turn controller reads to decide whether to consume an action point.
type OutcomeReport struct {
	TopText    string    `json:"top_text"`
	BottomText string    `json:"bottom_text"`
	Icon       string    `json:"icon"`
	IsAction   bool      `json:"is_action"`
	IsError    bool      `json:"is_error"`
	Capture    bool      `json:"capture"`
	Side       game.Side `json:"side"`
}

// reportBuilder accumulates effect text fragments into a single outcome
// report, separating fragments with blank lines. Downstream consumers rely
// on non-empty text to decide whether to render a line, so every successful
// resolution must contribute fragments.
type reportBuilder struct {
	top      []string
	bottom   []string
	isAction bool
	isError  bool
}

func (rb *reportBuilder) addTop(s string) {
	if s != "" {
		rb.top = append(rb.top, s)
	}
}

func (rb *reportBuilder) addBottom(s string) {
	if s != "" {
		rb.bottom = append(rb.bottom, s)
	}
}

func (rb *reportBuilder) absorb(res EffectResult) {
	rb.addTop(res.TopText)
	rb.addBottom(res.BottomText)
	if res.IsAction {
		rb.isAction = true
	}
	if res.IsError {
		rb.isError = true
	}
}

func (rb *reportBuilder) report(side game.Side, icon string) *OutcomeReport {
	return &OutcomeReport{
		TopText:    joinBlank(rb.top),
		BottomText: joinBlank(rb.bottom),
		Icon:       icon,
		IsAction:   rb.isAction,
		IsError:    rb.isError,
		Side:       side,
	}
}

func joinBlank(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}

// glitchReport is the generic user-facing error outcome. Missing actors,
// nodes, gear or action data all downgrade to this: the request is aborted
// but the session continues and no action point is consumed.
func glitchReport(side game.Side) *OutcomeReport {
	return &OutcomeReport{
		TopText:    "Something's gone wrong",
		BottomText: "The request could not be carried out. No action was taken.",
		Icon:       "error",
		IsError:    true,
		Side:       side,
	}
}
