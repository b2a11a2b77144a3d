package infrastructure

import (
	"context"
	"sync"
)

// Task représente une tâche à exécuter
type Task func(ctx context.Context) error

// WorkerPool exécute un lot de tâches avec un nombre borné de workers
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool crée un nouveau pool de workers (minimum 1)
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &WorkerPool{workerCount: workerCount}
}

// WorkerCount nombre de workers du pool
func (wp *WorkerPool) WorkerCount() int {
	return wp.workerCount
}

// Run exécute les tâches et retourne une erreur par tâche, dans l'ordre de soumission
// Une fois ctx annulé, les tâches non démarrées reçoivent ctx.Err().
func (wp *WorkerPool) Run(ctx context.Context, tasks []Task) []error {
	errs := make([]error, len(tasks))
	if len(tasks) == 0 {
		return errs
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(wp.workerCount, len(tasks)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				errs[i] = tasks[i](ctx)
			}
		}()
	}

	for i := range tasks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return errs
}
