package runtime

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/varmodel/varmodel-go/pkg/config"
	"github.com/varmodel/varmodel-go/pkg/log"
	"github.com/varmodel/varmodel-go/pkg/model"
	"github.com/varmodel/varmodel-go/pkg/persistence"
	"github.com/varmodel/varmodel-go/pkg/version"
)

// commandQueueSize bounds pending cross-task requests.
const commandQueueSize = 64

// Runner owns the model tree's writer goroutine and its tick schedule.
type Runner struct {
	model     *model.Model
	store     *persistence.Store
	cfg       config.Config
	logger    log.Logger
	sessionID string

	commands      chan func()
	saveRequested atomic.Bool
	bootCleanup   bool
}

// New creates a runner. Every engine run gets a fresh session ID stamped
// on its log events.
func New(m *model.Model, store *persistence.Store, cfg config.Config, logger log.Logger) *Runner {
	sessionID := uuid.NewString()
	return &Runner{
		model:     m,
		store:     store,
		cfg:       cfg,
		logger:    log.NewSessionLogger(logger, sessionID),
		sessionID: sessionID,
		commands:  make(chan func(), commandQueueSize),
	}
}

// Model returns the owned model. Mutate it only from the runner goroutine
// (directly before Run, or via Do/Submit afterwards).
func (r *Runner) Model() *model.Model {
	return r.model
}

// SessionID returns this run's session ID.
func (r *Runner) SessionID() string {
	return r.sessionID
}

// Setup declares the engine's own variable group: the engine version, the
// saveModel button and, in dev mode, the showObsolete diagnostic checkbox.
// Call it during the setup pass, alongside the feature modules'
// declarations.
func (r *Runner) Setup() {
	parent := r.model.Declare(nil, model.Declaration{ID: "model", Type: "group"})

	r.model.Declare(parent, model.Declaration{
		ID:       "version",
		Type:     "text",
		Value:    version.Current,
		ReadOnly: true,
	})

	r.model.Declare(parent, model.Declaration{
		ID:   "saveModel",
		Type: "button",
		Handler: func(v *model.Variable, rowNr uint8, kind model.EventKind) bool {
			switch kind {
			case model.EventOnUI:
				v.SetComment("Write to " + r.store.Path())
				return true
			case model.EventOnChange:
				r.RequestSave()
				return true
			default:
				return false
			}
		},
	})

	if r.cfg.DevMode {
		r.model.Declare(parent, model.Declaration{
			ID:    "showObsolete",
			Type:  "checkbox",
			Value: false,
			Handler: func(v *model.Variable, rowNr uint8, kind model.EventKind) bool {
				switch kind {
				case model.EventOnUI:
					v.SetComment("Show in UI (refresh)")
					return true
				default:
					return false
				}
			},
		})
	}
}

// RequestSave flags the model for persistence. The save happens on the
// runner goroutine at the next fast tick; RequestSave itself never blocks
// on I/O.
func (r *Runner) RequestSave() {
	r.saveRequested.Store(true)
}

// Submit enqueues a mutation to run on the runner goroutine.
func (r *Runner) Submit(fn func(m *model.Model)) {
	r.commands <- func() { fn(r.model) }
}

// Do runs a mutation on the runner goroutine and waits for it.
func (r *Runner) Do(fn func(m *model.Model)) {
	done := make(chan struct{})
	r.commands <- func() {
		defer close(done)
		fn(r.model)
	}
	<-done
}

// Run executes the tick loop until the context is cancelled. It must be
// the only goroutine mutating the model while running.
func (r *Runner) Run(ctx context.Context) error {
	fast := time.NewTicker(r.cfg.FastTick)
	defer fast.Stop()
	slow := time.NewTicker(r.cfg.SlowTick)
	defer slow.Stop()

	for {
		select {
		case <-ctx.Done():
			// Flush a pending save so a shutdown does not lose the flag.
			if r.saveRequested.Swap(false) {
				r.saveModel()
			}
			return ctx.Err()

		case fn := <-r.commands:
			fn()

		case <-fast.C:
			r.fastTick()

		case <-slow.C:
			r.slowTick()
		}
	}
}

// fastTick runs the one-time post-boot cleanup and flushes a pending save.
func (r *Runner) fastTick() {
	if !r.bootCleanup {
		r.bootCleanup = true
		r.model.CleanupModel(true)
	}

	if r.saveRequested.Swap(false) {
		r.saveModel()
	}
}

// slowTick re-fires the telemetry handlers across every variable. The
// snapshot is collected up front so handlers may add or remove siblings
// mid-traversal.
func (r *Runner) slowTick() {
	var vars []*model.Variable
	r.model.Walk(func(v *model.Variable) bool {
		vars = append(vars, v)
		return false
	})
	for _, v := range vars {
		v.TriggerEvent(model.EventOnLoop1s, model.NoRow, false)
	}
}

// saveModel runs the pre-persistence sweep, strips transient values, and
// writes the tree.
func (r *Runner) saveModel() {
	r.model.CleanupModel(false)
	r.model.StripValues()
	if err := r.store.Save(r.model.Root()); err != nil {
		r.logger.Log(log.NewErrorEvent("", "", err, "model save"))
	}
}
