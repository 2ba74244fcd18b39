package dataloader_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
)

type batchCall struct {
	params string
	keys   []int
}

// recorder logs every batch it serves and answers each key with
// "<params>:<key>". Keys listed in missing are left out of the result.
type recorder struct {
	mu      sync.Mutex
	calls   []batchCall
	missing map[int]bool
	fail    error
	gate    chan struct{}

	running    atomic.Int32
	maxRunning atomic.Int32
}

func (r *recorder) Calls() []batchCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]batchCall(nil), r.calls...)
}

func (r *recorder) fetch(ctx context.Context, params string, keys []int) (map[int]dataloader.Result[string], error) {
	n := r.running.Add(1)
	defer r.running.Add(-1)
	for {
		m := r.maxRunning.Load()
		if n <= m || r.maxRunning.CompareAndSwap(m, n) {
			break
		}
	}

	r.mu.Lock()
	r.calls = append(r.calls, batchCall{params: params, keys: append([]int(nil), keys...)})
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if r.fail != nil {
		return nil, r.fail
	}

	out := make(map[int]dataloader.Result[string], len(keys))
	for _, k := range keys {
		if r.missing[k] {
			continue
		}
		if k < 0 {
			out[k] = dataloader.Fail[string](fmt.Errorf("negative key %d", k))
			continue
		}
		out[k] = dataloader.Ok(fmt.Sprintf("%s:%d", params, k))
	}
	return out, nil
}

var _ = Describe("Loader", func() {
	var (
		ctx   context.Context
		scope *dataloader.Scope
		rec   *recorder
		opts  dataloader.Options
	)

	BeforeEach(func() {
		ctx = context.Background()
		scope = dataloader.NewScope(ctx)
		rec = &recorder{}
		opts = dataloader.Options{Wait: 20 * time.Millisecond, MaxBatch: 100}
	})

	AfterEach(func() {
		scope.Close()
	})

	newLoader := func() *dataloader.Loader[string, int, string] {
		return dataloader.New(scope, "test", rec.fetch, opts)
	}

	It("coalesces concurrent loads into one batch", func() {
		loader := newLoader()

		var wg sync.WaitGroup
		values := make([]string, 5)
		for i := range values {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()
				v, err := loader.Load(ctx, "u1", i)
				Expect(err).ShouldNot(HaveOccurred())
				values[i] = v
			}(i)
		}
		wg.Wait()

		Expect(values).Should(Equal([]string{"u1:0", "u1:1", "u1:2", "u1:3", "u1:4"}))
		calls := rec.Calls()
		Expect(calls).Should(HaveLen(1))
		Expect(calls[0].keys).Should(ConsistOf(0, 1, 2, 3, 4))
	})

	It("serves repeated keys from the cache", func() {
		loader := newLoader()

		results := loader.LoadMany(ctx, "u1", []int{1, 2, 1, 2})
		for _, r := range results {
			Expect(r.Err).ShouldNot(HaveOccurred())
		}
		Expect(rec.Calls()).Should(Equal([]batchCall{{params: "u1", keys: []int{1, 2}}}))

		v, err := loader.Load(ctx, "u1", 2)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).Should(Equal("u1:2"))
		Expect(rec.Calls()).Should(HaveLen(1))

		loader.LoadMany(ctx, "u1", []int{2, 3})
		calls := rec.Calls()
		Expect(calls).Should(HaveLen(2))
		Expect(calls[1].keys).Should(Equal([]int{3}))
	})

	It("keeps a separate queue and cache per params value", func() {
		loader := newLoader()

		var wg sync.WaitGroup
		for _, params := range []string{"u1", "u2"} {
			wg.Add(1)
			go func(params string) {
				defer GinkgoRecover()
				defer wg.Done()
				results := loader.LoadMany(ctx, params, []int{7, 8})
				Expect(results[0].Value).Should(Equal(params + ":7"))
				Expect(results[1].Value).Should(Equal(params + ":8"))
			}(params)
		}
		wg.Wait()

		calls := rec.Calls()
		Expect(calls).Should(HaveLen(2))
		Expect([]string{calls[0].params, calls[1].params}).Should(ConsistOf("u1", "u2"))
	})

	It("splits batches at MaxBatch", func() {
		opts.MaxBatch = 3
		loader := newLoader()

		results := loader.LoadMany(ctx, "u1", []int{1, 2, 3, 4, 5, 6, 7})
		for i, r := range results {
			Expect(r.Value).Should(Equal(fmt.Sprintf("u1:%d", i+1)))
		}
		calls := rec.Calls()
		Expect(calls).Should(HaveLen(3))
		for _, c := range calls {
			Expect(len(c.keys)).Should(BeNumerically("<=", 3))
		}
	})

	It("reports a key the batch function left out", func() {
		rec.missing = map[int]bool{2: true}
		loader := newLoader()

		results := loader.LoadMany(ctx, "u1", []int{1, 2})
		Expect(results[0].Err).ShouldNot(HaveOccurred())
		Expect(errors.Is(results[1].Err, dataloader.ErrMissingKey)).Should(BeTrue())
	})

	It("passes per-key errors through", func() {
		loader := newLoader()

		results := loader.LoadMany(ctx, "u1", []int{-1, 1})
		Expect(results[0].Err).Should(MatchError("negative key -1"))
		Expect(results[1].Value).Should(Equal("u1:1"))
	})

	It("shares one cached BatchError across the whole batch", func() {
		cause := errors.New("database is down")
		rec.fail = cause
		loader := newLoader()

		results := loader.LoadMany(ctx, "u1", []int{1, 2, 3})
		var first *dataloader.BatchError
		Expect(errors.As(results[0].Err, &first)).Should(BeTrue())
		Expect(errors.Is(first, cause)).Should(BeTrue())
		for _, r := range results[1:] {
			Expect(r.Err).Should(BeIdenticalTo(first))
		}

		rec.fail = nil
		_, err := loader.Load(ctx, "u1", 2)
		Expect(err).Should(BeIdenticalTo(first))
		Expect(rec.Calls()).Should(HaveLen(1))
	})

	It("turns a panicking batch function into a batch error", func() {
		loader := dataloader.New(scope, "panicky", func(context.Context, string, []int) (map[int]dataloader.Result[string], error) {
			panic("boom")
		}, opts)

		_, err := loader.Load(ctx, "u1", 1)
		var batchErr *dataloader.BatchError
		Expect(errors.As(err, &batchErr)).Should(BeTrue())
		Expect(batchErr.Error()).Should(ContainSubstring("boom"))
	})

	It("keeps at most one fetch in flight per params value", func() {
		rec.gate = make(chan struct{})
		loader := newLoader()

		firstDone := make(chan error, 1)
		go func() {
			_, err := loader.Load(ctx, "u1", 1)
			firstDone <- err
		}()
		Eventually(func() int { return len(rec.Calls()) }).Should(Equal(1))

		secondDone := make(chan error, 1)
		go func() {
			_, err := loader.Load(ctx, "u1", 2)
			secondDone <- err
		}()
		Consistently(func() int { return len(rec.Calls()) }, 60*time.Millisecond).Should(Equal(1))

		close(rec.gate)
		Eventually(firstDone).Should(Receive(BeNil()))
		Eventually(secondDone).Should(Receive(BeNil()))

		calls := rec.Calls()
		Expect(calls).Should(HaveLen(2))
		Expect(calls[1].keys).Should(Equal([]int{2}))
		Expect(rec.maxRunning.Load()).Should(BeEquivalentTo(1))
	})

	It("lets a waiter give up without cancelling the fetch", func() {
		rec.gate = make(chan struct{})
		loader := newLoader()

		waitCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			_, err := loader.Load(waitCtx, "u1", 1)
			done <- err
		}()
		Eventually(func() int { return len(rec.Calls()) }).Should(Equal(1))
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))

		close(rec.gate)
		v, err := loader.Load(ctx, "u1", 1)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).Should(Equal("u1:1"))
		Expect(rec.Calls()).Should(HaveLen(1))
	})

	It("fetches a cleared key again and honours primed values", func() {
		loader := newLoader()

		loader.Prime("u1", 5, "primed")
		v, err := loader.Load(ctx, "u1", 5)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).Should(Equal("primed"))
		Expect(rec.Calls()).Should(BeEmpty())

		loader.Clear("u1", 5)
		v, err = loader.Load(ctx, "u1", 5)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).Should(Equal("u1:5"))

		_, err = loader.Load(ctx, "u2", 5)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(rec.Calls()).Should(HaveLen(2))
	})

	It("drops matching keys across params with ClearFunc", func() {
		loader := newLoader()
		for _, p := range []string{"u1", "u2"} {
			results := loader.LoadMany(ctx, p, []int{1, 2})
			for _, r := range results {
				Expect(r.Err).ShouldNot(HaveOccurred())
			}
		}
		Expect(rec.Calls()).Should(HaveLen(2))

		loader.ClearFunc(func(_ string, key int) bool { return key == 2 })

		for _, p := range []string{"u1", "u2"} {
			v, err := loader.Load(ctx, p, 1)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal(p + ":1"))
		}
		Expect(rec.Calls()).Should(HaveLen(2))

		results := loader.LoadMany(ctx, "u1", []int{2})
		Expect(results[0].Err).ShouldNot(HaveOccurred())
		Expect(results[0].Value).Should(Equal("u1:2"))
		Expect(rec.Calls()).Should(HaveLen(3))
		Expect(rec.Calls()[2].keys).Should(Equal([]int{2}))
	})

	Describe("Scope", func() {
		It("fails loads after Close", func() {
			loader := newLoader()
			_, err := loader.Load(ctx, "u1", 1)
			Expect(err).ShouldNot(HaveOccurred())

			scope.Close()
			Expect(scope.Closed()).Should(BeTrue())
			_, err = loader.Load(ctx, "u1", 1)
			Expect(err).Should(MatchError(dataloader.ErrScopeClosed))
		})

		It("fails waiters whose keys were never dispatched", func() {
			opts.Wait = time.Hour
			loader := newLoader()

			done := make(chan error, 1)
			go func() {
				_, err := loader.Load(ctx, "u1", 1)
				done <- err
			}()
			Consistently(done, 30*time.Millisecond).ShouldNot(Receive())

			scope.Close()
			Eventually(done).Should(Receive(MatchError(dataloader.ErrScopeClosed)))
			Expect(rec.Calls()).Should(BeEmpty())
		})

		It("rejects loaders created on a closed scope", func() {
			scope.Close()
			loader := newLoader()
			_, err := loader.Load(ctx, "u1", 1)
			Expect(err).Should(MatchError(dataloader.ErrScopeClosed))
		})

		It("cancels the fetch context on Close", func() {
			started := make(chan struct{})
			loader := dataloader.New(scope, "blocking", func(ctx context.Context, _ string, keys []int) (map[int]dataloader.Result[string], error) {
				close(started)
				<-ctx.Done()
				return nil, ctx.Err()
			}, opts)

			done := make(chan error, 1)
			go func() {
				_, err := loader.Load(ctx, "u1", 1)
				done <- err
			}()
			Eventually(started).Should(BeClosed())

			scope.Close()
			var err error
			Eventually(done).Should(Receive(&err))
			Expect(errors.Is(err, context.Canceled)).Should(BeTrue())
		})
	})
})
