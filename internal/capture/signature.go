package capture

import "strings"

// Signature recognizes the exchange that carries a game's solution payload.
// All clauses must hold: every URLContains substring present, no URLExcludes
// substring present, the method equal (when set), and the Body predicate
// satisfied (when set).
type Signature struct {
	URLContains []string
	URLExcludes []string
	Method      string
	Body        func(body []byte) bool
}

// Matches reports whether ex satisfies every clause of the signature.
func (s Signature) Matches(ex Exchange) bool {
	for _, sub := range s.URLContains {
		if !strings.Contains(ex.URL, sub) {
			return false
		}
	}
	for _, sub := range s.URLExcludes {
		if strings.Contains(ex.URL, sub) {
			return false
		}
	}
	if s.Method != "" && !strings.EqualFold(s.Method, ex.Method) {
		return false
	}
	if s.Body != nil && !s.Body(ex.ResponseBody) {
		return false
	}
	return true
}

// FindMatch scans exchanges in arrival order and returns the first one
// satisfying the signature. Pure inspection; ok is false when nothing
// matches, and the caller decides whether to poll again.
func FindMatch(exchanges []Exchange, sig Signature) (Exchange, bool) {
	for _, ex := range exchanges {
		if sig.Matches(ex) {
			return ex, true
		}
	}
	return Exchange{}, false
}
