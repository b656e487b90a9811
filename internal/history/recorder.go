package history

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbright/parola/internal/engine"
)

// Recorder bridges engine observer callbacks into the history store.
// Outcomes can arrive from the sequence timeout goroutine, so the
// begin timestamp is guarded.
type Recorder struct {
	store  *Store
	limit  int
	logger *slog.Logger

	mu    sync.Mutex
	began time.Time
}

var _ engine.Observer = (*Recorder)(nil)

// NewRecorder returns a recorder that stores outcomes in store and
// prunes it to limit records after each insert. A limit of zero keeps
// everything.
func NewRecorder(store *Store, limit int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, limit: limit, logger: logger}
}

// OnBegin stamps the utterance start so stored outcomes carry a
// duration.
func (r *Recorder) OnBegin() {
	r.mu.Lock()
	r.began = time.Now()
	r.mu.Unlock()
}

// OnRecognition stores a dispatched rule match, or a keyphrase row
// when no rule was involved.
func (r *Recorder) OnRecognition(rec engine.Recognition) {
	status := StatusDispatched
	if rec.Rule == "" {
		status = StatusKeyphrase
	}
	r.insert(&Record{
		Words:    strings.Join(rec.Words, " "),
		Grammar:  rec.Grammar,
		Rule:     rec.Rule,
		Status:   status,
		TimedOut: rec.TimedOut,
	})
}

// OnFailure stores an utterance that matched nothing.
func (r *Recorder) OnFailure(words []string) {
	r.insert(&Record{Words: strings.Join(words, " "), Status: StatusFailed})
}

func (r *Recorder) insert(rec *Record) {
	r.mu.Lock()
	if !r.began.IsZero() {
		rec.DurationMS = time.Since(r.began).Milliseconds()
	}
	r.began = time.Time{}
	r.mu.Unlock()

	if err := r.store.Insert(rec); err != nil {
		r.logger.Warn("history insert failed", "error", err)
		return
	}
	if r.limit > 0 {
		if err := r.store.Prune(r.limit); err != nil {
			r.logger.Warn("history prune failed", "error", err)
		}
	}
}
