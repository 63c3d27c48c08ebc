// Package capture records and filters the HTTP traffic a game page emits.
// The recorder listens to CDP network events on a rod page; the filter picks
// the exchange carrying a game's solution payload out of everything else the
// page loads.
package capture

import "time"

// Exchange is one observed request/response pair. It is immutable once
// recorded; consumers only read it.
type Exchange struct {
	URL          string    `json:"url"`
	Method       string    `json:"method"`
	RequestBody  []byte    `json:"request_body,omitempty"`
	ResponseBody []byte    `json:"response_body,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
