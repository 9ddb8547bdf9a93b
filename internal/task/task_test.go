package task

import (
	"context"
	"testing"
	"time"

	"github.com/Iron-Ham/sortscope/internal/errors"
)

func TestGo_ReturnsResult(t *testing.T) {
	task := Go(func() error { return nil })

	if err := task.Wait(context.Background()); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}

	failure := errors.NewRadixError(0)
	task = Go(func() error { return failure })
	if err := task.Wait(context.Background()); !errors.Is(err, errors.ErrInvalidRadix) {
		t.Errorf("Wait() = %v, want ErrInvalidRadix", err)
	}
	if !errors.Is(task.Err(), errors.ErrInvalidRadix) {
		t.Errorf("Err() = %v, want ErrInvalidRadix", task.Err())
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	task := Go(func() error {
		panic("bucket exploded")
	}, WithRunID("run-7"))

	err := task.Wait(context.Background())
	if !errors.Is(err, errors.ErrTaskPanicked) {
		t.Fatalf("Wait() = %v, want ErrTaskPanicked", err)
	}

	var taskErr *errors.TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("Expected TaskError, got %T", err)
	}
	if taskErr.RunID != "run-7" {
		t.Errorf("RunID = %q, want run-7", taskErr.RunID)
	}
	if errors.GetSeverity(err) != errors.SeverityCritical {
		t.Errorf("severity = %v, want critical", errors.GetSeverity(err))
	}
}

func TestGo_OnDoneRunsBeforeDone(t *testing.T) {
	var got []string
	task := Go(func() error { return nil },
		WithOnDone(func(error) { got = append(got, "first") }),
		WithOnDone(func(err error) {
			if err != nil {
				t.Errorf("callback err = %v", err)
			}
			got = append(got, "second")
		}),
	)

	<-task.Done()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("callbacks = %v, want [first second]", got)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	task := Go(func() error {
		<-release
		return nil
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want DeadlineExceeded", err)
	}
	if task.Err() != nil {
		t.Errorf("Err() = %v while running, want nil", task.Err())
	}
}
