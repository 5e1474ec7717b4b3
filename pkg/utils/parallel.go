package utils

import "sync"

// ParallelMap 把 fn 并发应用到 input 的每个元素，结果与输入同序。
// workers 限制并发上限；单元素或单 worker 时退化为同步执行，避免无谓的调度。
func ParallelMap[T any, R any](input []T, workers int, fn func(T) R) []R {
	if len(input) == 0 {
		return nil
	}
	result := make([]R, len(input))

	if len(input) == 1 || workers <= 1 {
		for i, v := range input {
			result[i] = fn(v)
		}
		return result
	}

	if workers > len(input) {
		workers = len(input)
	}

	var wg sync.WaitGroup
	jobs := make(chan int, len(input))
	for i := range input {
		jobs <- i
	}
	close(jobs)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				result[i] = fn(input[i])
			}
		}()
	}
	wg.Wait()
	return result
}
