package middleware

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

// fakeContext implements the parts of tele.Context the middlewares touch.
type fakeContext struct {
	tele.Context
	upd   tele.Update
	user  *tele.User
	store map[string]interface{}
	sent  int
}

func newFakeContext(userID int64, upd tele.Update) *fakeContext {
	return &fakeContext{upd: upd, user: &tele.User{ID: userID}, store: map[string]interface{}{}}
}

func (f *fakeContext) Update() tele.Update             { return f.upd }
func (f *fakeContext) Sender() *tele.User              { return f.user }
func (f *fakeContext) Chat() *tele.Chat                { return &tele.Chat{ID: f.user.ID, Type: tele.ChatPrivate} }
func (f *fakeContext) Text() string                    { return "" }
func (f *fakeContext) Get(key string) interface{}      { return f.store[key] }
func (f *fakeContext) Set(key string, val interface{}) { f.store[key] = val }
func (f *fakeContext) Send(interface{}, ...interface{}) error {
	f.sent++
	return nil
}

func TestRateLimitDropsBurst(t *testing.T) {
	clock := time.Unix(1000, 0)
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Second,
		Now:      func() time.Time { return clock },
	})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })

	msg := tele.Update{Message: &tele.Message{}}
	_ = h(newFakeContext(1, msg))
	_ = h(newFakeContext(1, msg))
	_ = h(newFakeContext(2, msg))
	if calls != 2 {
		t.Fatalf("expected 2 handled updates, got %d", calls)
	}

	clock = clock.Add(time.Second)
	_ = h(newFakeContext(1, msg))
	if calls != 3 {
		t.Fatalf("expected update after interval to pass, got %d", calls)
	}
}

func TestRateLimitExcludesKinds(t *testing.T) {
	limited := 0
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Hour,
		Exclude:   map[string]struct{}{"callback": {}},
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })

	cb := tele.Update{Callback: &tele.Callback{Data: "battles"}}
	for i := 0; i < 3; i++ {
		_ = h(newFakeContext(7, cb))
	}
	msg := tele.Update{Message: &tele.Message{}}
	_ = h(newFakeContext(7, msg))
	_ = h(newFakeContext(7, msg))

	if calls != 4 || limited != 1 {
		t.Fatalf("calls=%d limited=%d", calls, limited)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	if err := h(newFakeContext(1, tele.Update{ID: 3})); err != nil {
		t.Fatalf("expected nil error after recovery, got %v", err)
	}
}

func TestMessageMetrics(t *testing.T) {
	fc := newFakeContext(1, tele.Update{})
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		_ = c.Send("one")
		return c.Send("two", &tele.ReplyMarkup{})
	})
	if err := h(fc); err != nil {
		t.Fatal(err)
	}
	msgs, kb := GetCounters(fc)
	if msgs != 2 || !kb || fc.sent != 2 {
		t.Fatalf("msgs=%d kb=%v sent=%d", msgs, kb, fc.sent)
	}
}
