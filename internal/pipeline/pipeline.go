// Package pipeline runs one paste-JSON-as-code invocation: it reads the
// clipboard, generates code off the buffer's goroutine and hands the result
// back to the buffer owner for patching.
package pipeline

import (
	stderrors "errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mcncl/pastejson/internal/assembler"
	"github.com/mcncl/pastejson/internal/buffer"
	"github.com/mcncl/pastejson/internal/clipboard"
	"github.com/mcncl/pastejson/internal/command"
	"github.com/mcncl/pastejson/internal/config"
	"github.com/mcncl/pastejson/internal/errors"
	"github.com/mcncl/pastejson/internal/generator"
	"github.com/mcncl/pastejson/internal/lines"
	"github.com/mcncl/pastejson/internal/models"
	"github.com/mcncl/pastejson/internal/parser"
)

// Backend generates and renders type declarations for a schema.
type Backend interface {
	Generate(req models.GenerationRequest) (models.GenerationResult, error)
	FixReferences(files models.FileSet) error
	Render(file *models.GeneratedFile) (string, error)
}

// Dispatcher runs functions on the goroutine that owns the buffer.
// *buffer.Owner is the usual implementation.
type Dispatcher interface {
	Dispatch(fn func()) error
}

type inline struct{}

func (inline) Dispatch(fn func()) error {
	fn()
	return nil
}

// Options configures an Orchestrator.
type Options struct {
	Backend Backend
	Source  clipboard.Source
	Loader  config.Loader
	Owner   Dispatcher
	Logger  *slog.Logger
	// RootName overrides the configured root type name.
	RootName string
}

// Invocation is one command run against a buffer.
type Invocation struct {
	CommandIdentifier string
	Buffer            *buffer.Buffer
}

// Orchestrator serves exactly one invocation.
type Orchestrator struct {
	backend  Backend
	source   clipboard.Source
	loader   config.Loader
	owner    Dispatcher
	logger   *slog.Logger
	rootName string

	mu        sync.Mutex
	state     State
	performed bool
}

// New creates an Orchestrator. Missing collaborators fall back to the Go
// backend, the system clipboard, the default configuration, an inline
// dispatcher and slog.Default.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		backend:  opts.Backend,
		source:   opts.Source,
		loader:   opts.Loader,
		owner:    opts.Owner,
		logger:   opts.Logger,
		rootName: opts.RootName,
	}
	if o.backend == nil {
		o.backend = generator.NewBackend()
	}
	if o.source == nil {
		o.source = clipboard.System{}
	}
	if o.loader == nil {
		o.loader = config.StaticLoader{}
	}
	if o.owner == nil {
		o.owner = inline{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

type result struct {
	generated []string
	cfg       *config.Config
	rootName  string
	err       error
}

// Perform runs the invocation and calls done exactly once, from the owner
// goroutine once patching has run, or from the calling goroutine when the
// invocation fails before any background work starts.
func (o *Orchestrator) Perform(inv Invocation, done func(error)) {
	o.mu.Lock()
	if o.performed {
		o.mu.Unlock()
		done(errors.NewStateError("orchestrator already served an invocation", errors.ErrAlreadyPerformed))
		return
	}
	o.performed = true
	o.mu.Unlock()

	log := o.logger.With("invocation", uuid.New().String(), "command", inv.CommandIdentifier)
	finish := func(err error) {
		if err != nil {
			o.setState(log, Failed)
			log.Error("paste failed", "error", errors.Diagnostic(err), "message", errors.UserFriendlyError(err))
		} else {
			o.setState(log, Done)
		}
		done(err)
	}

	if _, err := command.Lookup(inv.CommandIdentifier); err != nil {
		finish(err)
		return
	}
	if inv.Buffer == nil {
		finish(errors.NewOutputError("invocation has no destination buffer", nil))
		return
	}
	raw, err := o.source.ReadText()
	if err != nil {
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			err = errors.NewInputError("failed to read clipboard", err)
		}
		finish(err)
		return
	}

	results := make(chan result, 1)
	go func() {
		results <- o.compute(log, raw)
		err := o.owner.Dispatch(func() {
			r := <-results
			if r.err != nil {
				finish(r.err)
				return
			}
			o.setState(log, Patching)
			o.patch(inv.Buffer, r)
			log.Info("pasted generated code", "root", r.rootName, "lines", len(r.generated))
			finish(nil)
		})
		if err != nil {
			finish(errors.NewOutputError("destination buffer is no longer available", err))
		}
	}()
}

// compute is the pure stage: nothing here touches the buffer.
func (o *Orchestrator) compute(log *slog.Logger, raw string) result {
	o.setState(log, Sanitizing)
	clean := parser.StripControlCharacters(raw)

	o.setState(log, Parsing)
	ir, err := parser.ParseString(clean)
	if err != nil {
		return result{err: err}
	}
	schema, err := parser.Normalize(ir)
	if err != nil {
		return result{err: err}
	}
	log.Debug("parsed input", "array_root", ir.RootIsArray, "keys", len(schema))

	cfg, err := o.loader.Load()
	if err != nil {
		return result{err: errors.NewConfigError("failed to load language configuration", err)}
	}

	o.setState(log, Generating)
	rootName := o.rootName
	if rootName == "" {
		rootName = cfg.RootName
	}
	gen, err := o.backend.Generate(models.GenerationRequest{Schema: schema, DesiredRootName: rootName, Language: cfg})
	if err != nil {
		return result{err: errors.NewGenerateError("failed to generate types", err)}
	}
	if err := o.backend.FixReferences(gen.Files); err != nil {
		return result{err: errors.NewGenerateError("failed to resolve type references", err)}
	}
	generated, err := assembler.Assemble(gen.Files, o.backend.Render)
	if err != nil {
		return result{err: errors.NewGenerateError("failed to render generated files", err)}
	}

	log.Debug("generated types", "root", gen.ResolvedRootName, "files", len(gen.Files))
	return result{generated: generated, cfg: cfg, rootName: gen.ResolvedRootName}
}

func (o *Orchestrator) patch(buf *buffer.Buffer, r result) {
	sel := buf.FirstSelection()
	classifier := lines.NewClassifier(r.cfg.Lines)
	buf.Patch(classifier.Apply(buf, sel.Start.Line, r.generated), sel)
}

func (o *Orchestrator) setState(log *slog.Logger, s State) {
	o.mu.Lock()
	from := o.state
	o.state = s
	o.mu.Unlock()
	log.Debug("state transition", "from", from.String(), "to", s.String())
}

// Run performs inv and waits for it to finish. It must not be called from
// the owner goroutine.
func Run(o *Orchestrator, inv Invocation) error {
	ch := make(chan error, 1)
	o.Perform(inv, func(err error) { ch <- err })
	return <-ch
}
