// Command quokkademo exercises the toolkit end to end: a worker pool, a
// timer, and a chain of futures composed across both — the demonstration
// role original_source/main.cc played for the C++ library, scaled up to
// this repo's larger surface.
package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/saltfishpr/quokka/dag"
	"github.com/saltfishpr/quokka/errtext"
	"github.com/saltfishpr/quokka/future"
	"github.com/saltfishpr/quokka/internal/clock"
	"github.com/saltfishpr/quokka/internal/strview"
	"github.com/saltfishpr/quokka/pool"
	"github.com/saltfishpr/quokka/retry"
)

func main() {
	sv := strview.View("Hello, quokka")
	fmt.Println(sv.String())
	fmt.Println(clock.FormatTimestamp(time.Now()))

	p := pool.New(pool.WithMaxThreads(8))
	if err := p.Start(); err != nil {
		panic(err)
	}
	defer func() {
		_ = p.Shutdown()
		_ = p.Join(context.Background())
	}()

	start := time.Now()
	f := pool.Execute(p, func() (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 21, nil
	})
	doubled := future.ThenValue(f, func(n int) (int, error) {
		return n * 2, nil
	})

	val, err := doubled.Get()
	if err != nil {
		fmt.Println(errtext.Describe(err, language.English))
		return
	}
	fmt.Printf("result: %d, elapsed: %s\n", val, clock.FormatElapsedMillis(time.Since(start), language.English))

	var attempts int
	_, err = retry.Do(context.Background(), func() (struct{}, error) {
		attempts++
		fut := pool.Execute(p, func() (struct{}, error) {
			if attempts < 2 {
				return struct{}{}, fmt.Errorf("transient failure on attempt %d", attempts)
			}
			return struct{}{}, nil
		})
		return fut.Get()
	})
	if err != nil {
		fmt.Println(errtext.Describe(err, language.English))
		return
	}
	fmt.Printf("retry succeeded after %d attempt(s)\n", attempts)

	p.SubmitAfter(10*time.Millisecond, func() {
		fmt.Println("delayed task fired")
	})
	time.Sleep(50 * time.Millisecond)

	runDAGOnPool(p)
}

// runDAGOnPool builds a tiny two-stage DAG and instantiates it with p as its
// executor, so every node runs as a pool task (via Pool.Submit) instead of the
// package's default executors.GoExecutor{}.
func runDAGOnPool(p *pool.Pool) {
	d := dag.NewDAG("entry")
	_ = d.AddNode("double", []dag.NodeID{"entry"}, func(_ context.Context, deps map[dag.NodeID]any) (any, error) {
		return deps["entry"].(int) * 2, nil
	})
	_ = d.AddNode("describe", []dag.NodeID{"double"}, func(_ context.Context, deps map[dag.NodeID]any) (any, error) {
		return fmt.Sprintf("doubled = %d", deps["double"].(int)), nil
	})
	if err := d.Freeze(); err != nil {
		panic(err)
	}

	instance, err := d.Instantiate(21, dag.WithExecutor(p))
	if err != nil {
		panic(err)
	}
	results, err := instance.Run(context.Background())
	if err != nil {
		fmt.Println(errtext.Describe(err, language.English))
		return
	}
	fmt.Println(results["describe"])
}
