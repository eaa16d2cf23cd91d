package workerpool

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/fontatlas"
)

// OracleFactory builds one worker's dedicated SDFOracle. It is called once
// per worker during NewPool; the oracle it returns is never shared across
// goroutines.
type OracleFactory func() (fontatlas.SDFOracle, error)

// job is one unit of work submitted to the pool. reply carries exactly one
// jobResult back to the caller that submitted it.
type job struct {
	cp         fontatlas.CodePoint
	fontSize   int
	pixelRange float64
	reply      chan jobResult
}

type jobResult struct {
	field *fontatlas.GeneratedField
	err   error
}

// Pool is a fixed-size set of worker goroutines, each backed by its own
// SDFOracle. Submissions are delivered through a single shared, buffered
// channel: a worker blocked receiving on that channel is the Go analogue of
// an idle-worker stack, and the channel's buffer is the overflow FIFO for
// work submitted while every worker is busy.
//
// Per-worker message order is the channel's FIFO order; completion order
// across workers is unspecified. GenerateBatch nonetheless returns results
// in input order because each request is tracked through its own reply
// channel.
type Pool struct {
	jobs   chan job
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewPool builds N workers, each initialized by calling factory and loading
// fontBytes into the returned oracle. If any worker's factory or LoadFont
// call fails, NewPool aborts construction and returns a
// *fontatlas.WorkerInitFailureError; the pool is never returned in a
// partially-initialized state. n<=0 uses GOMAXPROCS.
func NewPool(n int, factory OracleFactory, fontBytes []byte) (*Pool, error) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	oracles := make([]fontatlas.SDFOracle, n)
	for i := 0; i < n; i++ {
		oracle, err := factory()
		if err != nil {
			return nil, &fontatlas.WorkerInitFailureError{WorkerIndex: i, Err: err}
		}
		if err := oracle.LoadFont(fontBytes); err != nil {
			return nil, &fontatlas.WorkerInitFailureError{WorkerIndex: i, Err: err}
		}
		oracles[i] = oracle
	}

	queueSize := n * 4
	if queueSize < 8 {
		queueSize = 8
	}
	p := &Pool{jobs: make(chan job, queueSize)}

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker(oracles[i])
	}
	slogger().Info("workerpool: pool ready", slog.Int("workers", n), slog.Int("queueSize", queueSize))
	return p, nil
}

func (p *Pool) worker(oracle fontatlas.SDFOracle) {
	defer p.wg.Done()
	for j := range p.jobs {
		field, err := oracle.GenerateMTSDF(j.cp, j.fontSize, j.pixelRange)
		if err != nil {
			slogger().Warn("workerpool: glyph generation failed, worker continues",
				slog.Any("codePoint", j.cp), slog.Any("err", err))
		}
		j.reply <- jobResult{field: field, err: err}
	}
}

// GenerateGlyph dispatches one code point and blocks for its result. Safe
// to call from multiple goroutines concurrently.
func (p *Pool) GenerateGlyph(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	reply := make(chan jobResult, 1)
	p.jobs <- job{cp: cp, fontSize: fontSize, pixelRange: pixelRange, reply: reply}
	res := <-reply
	return res.field, res.err
}

// GenerateBatch dispatches every code point in cps and returns results in
// the same order as cps, regardless of which worker produced each one or in
// what order they finished.
func (p *Pool) GenerateBatch(cps []fontatlas.CodePoint, fontSize int, pixelRange float64) ([]*fontatlas.GeneratedField, []error) {
	replies := make([]chan jobResult, len(cps))
	for i, cp := range cps {
		replies[i] = make(chan jobResult, 1)
		p.jobs <- job{cp: cp, fontSize: fontSize, pixelRange: pixelRange, reply: replies[i]}
	}

	fields := make([]*fontatlas.GeneratedField, len(cps))
	errs := make([]error, len(cps))
	for i, ch := range replies {
		res := <-ch
		fields[i] = res.field
		errs[i] = res.err
	}
	return fields, errs
}

// Dispose stops accepting work, waits for every in-flight job to finish,
// and terminates all worker goroutines. The pool is unusable afterwards.
// Dispose is safe to call multiple times.
func (p *Pool) Dispose() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.jobs)
	p.wg.Wait()
	slogger().Debug("workerpool: pool disposed")
}
