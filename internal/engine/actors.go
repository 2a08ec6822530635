package engine

import (
	stdctx "context"
	"errors"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/sirupsen/logrus"

	"hemp-commons/internal/store"
	"hemp-commons/internal/utils"
)

var log = logrus.WithField("component", "engine")

// DefaultTimeout bounds how long a caller waits on the store actor when its
// context carries no earlier deadline.
const DefaultTimeout = 10 * time.Second

type GetCountsMsg struct{}

// OperationMsg asks the store actor to run Run against the store. The actor
// handles one message at a time, so every store operation is serialized.
type OperationMsg struct {
	Name string
	Ctx  stdctx.Context
	Run  func(ctx stdctx.Context, s *store.Store) (interface{}, error)
}

type operationResult struct {
	value interface{}
	err   error
}

// StoreActor owns the store. It is the only caller of store mutations once
// the engine is running.
type StoreActor struct {
	store   *store.Store
	metrics *utils.MetricsCollector
}

func NewStoreActor(s *store.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &StoreActor{store: s, metrics: metrics}
}

func (a *StoreActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Debug("Store actor started")

	case *OperationMsg:
		startTime := time.Now()
		a.metrics.IncrementRequests()

		value, err := msg.Run(msg.Ctx, a.store)
		if err != nil {
			a.metrics.IncrementErrors()
			if utils.ErrorCode(err) == utils.ErrDatabase {
				log.WithError(err).WithField("operation", msg.Name).Error("Store operation failed")
			}
		}

		a.metrics.AddOperationLatency(msg.Name, time.Since(startTime))
		context.Respond(&operationResult{value: value, err: err})

	case *GetCountsMsg:
		counts, err := a.store.Counts(stdctx.Background())
		context.Respond(&operationResult{value: counts, err: err})
	}
}

// Engine is the front door to the store actor.
type Engine struct {
	root    *actor.RootContext
	pid     *actor.PID
	timeout time.Duration
}

func NewEngine(system *actor.ActorSystem, s *store.Store, metrics *utils.MetricsCollector, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewStoreActor(s, metrics)
	})
	return &Engine{
		root:    system.Root,
		pid:     system.Root.Spawn(props),
		timeout: timeout,
	}
}

// Stop waits for in-flight operations to finish before the actor exits.
func (e *Engine) Stop() {
	e.root.PoisonFuture(e.pid).Wait()
}

func (e *Engine) waitFor(ctx stdctx.Context) time.Duration {
	wait := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
	}
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}

func (e *Engine) request(ctx stdctx.Context, name string, msg interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := e.root.RequestFuture(e.pid, msg, e.waitFor(ctx)).Result()
	if err != nil {
		if errors.Is(err, actor.ErrTimeout) {
			log.WithField("operation", name).Warn("Store actor did not answer in time")
			return nil, utils.NewActorTimeoutError(name)
		}
		return nil, utils.NewAppError(utils.ErrActorTimeout, "store actor unavailable", err)
	}
	reply, ok := result.(*operationResult)
	if !ok {
		return nil, utils.NewAppError(utils.ErrInternal, "unexpected reply from store actor", nil)
	}
	return reply.value, reply.err
}

// Execute runs fn on the store actor and returns its typed result.
func Execute[T any](ctx stdctx.Context, e *Engine, name string, fn func(ctx stdctx.Context, s *store.Store) (T, error)) (T, error) {
	var zero T
	value, err := e.request(ctx, name, &OperationMsg{
		Name: name,
		Ctx:  ctx,
		Run: func(ctx stdctx.Context, s *store.Store) (interface{}, error) {
			return fn(ctx, s)
		},
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

// Counts skips the simulated delay; it backs the health check.
func (e *Engine) Counts(ctx stdctx.Context) (store.Counts, error) {
	value, err := e.request(ctx, "counts", &GetCountsMsg{})
	if err != nil {
		return store.Counts{}, err
	}
	counts, _ := value.(store.Counts)
	return counts, nil
}
