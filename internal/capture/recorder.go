package capture

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// pendingExchange accumulates a request until its body is fetchable.
type pendingExchange struct {
	url         string
	method      string
	requestBody []byte
	responded   bool
}

// Recorder observes every network exchange a page performs, in arrival order.
// It correlates CDP request/response/loading-finished events by request id and
// fetches response bodies once loading completes, since GetResponseBody is not
// reliable before that point.
type Recorder struct {
	page   *rod.Page
	cancel context.CancelFunc
	logger *zap.Logger
	done   chan struct{}

	mu        sync.Mutex
	pending   map[proto.NetworkRequestID]*pendingExchange
	exchanges []Exchange
}

// NewRecorder starts recording traffic on the given page. The recorder keeps
// observing until Stop is called or the page's context ends.
func NewRecorder(page *rod.Page, logger *zap.Logger) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Recorder{
		page:    page.Context(ctx),
		cancel:  cancel,
		logger:  logger,
		done:    make(chan struct{}),
		pending: make(map[proto.NetworkRequestID]*pendingExchange),
	}

	wait := r.page.EachEvent(
		func(ev *proto.NetworkRequestWillBeSent) {
			r.onRequest(ev)
		},
		func(ev *proto.NetworkResponseReceived) {
			r.onResponse(ev)
		},
		func(ev *proto.NetworkLoadingFinished) {
			r.onFinished(ev)
		},
	)

	go func() {
		defer close(r.done)
		wait()
	}()

	return r
}

// Exchanges returns a snapshot of everything recorded so far, in arrival
// order. Safe to call repeatedly from a polling loop.
func (r *Recorder) Exchanges() []Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Exchange, len(r.exchanges))
	copy(out, r.exchanges)
	return out
}

// Stop ends recording and waits for the event loop to drain.
func (r *Recorder) Stop() {
	r.cancel()
	<-r.done
}

func (r *Recorder) onRequest(ev *proto.NetworkRequestWillBeSent) {
	if ev.Request == nil {
		return
	}
	var reqBody []byte
	if ev.Request.PostData != "" {
		reqBody = []byte(ev.Request.PostData)
	}
	r.mu.Lock()
	r.pending[ev.RequestID] = &pendingExchange{
		url:         ev.Request.URL,
		method:      ev.Request.Method,
		requestBody: reqBody,
	}
	r.mu.Unlock()
}

func (r *Recorder) onResponse(ev *proto.NetworkResponseReceived) {
	r.mu.Lock()
	if p, ok := r.pending[ev.RequestID]; ok {
		p.responded = true
	}
	r.mu.Unlock()
}

func (r *Recorder) onFinished(ev *proto.NetworkLoadingFinished) {
	r.mu.Lock()
	p, ok := r.pending[ev.RequestID]
	if ok {
		delete(r.pending, ev.RequestID)
	}
	r.mu.Unlock()
	if !ok || !p.responded {
		return
	}

	res, err := proto.NetworkGetResponseBody{RequestID: ev.RequestID}.Call(r.page)
	if err != nil {
		r.logger.Debug("response body unavailable",
			zap.String("url", p.url), zap.Error(err))
		return
	}
	body := []byte(res.Body)
	if res.Base64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(res.Body)
		if err != nil {
			r.logger.Debug("response body base64 decode failed",
				zap.String("url", p.url), zap.Error(err))
			return
		}
		body = decoded
	}

	r.mu.Lock()
	r.exchanges = append(r.exchanges, Exchange{
		URL:          p.url,
		Method:       p.method,
		RequestBody:  p.requestBody,
		ResponseBody: body,
		Timestamp:    time.Now(),
	})
	r.mu.Unlock()
}
