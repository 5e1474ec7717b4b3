package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallelMapEmpty(t *testing.T) {
	var input []int
	result := ParallelMap(input, 4, func(i int) int { return i * 2 })
	require.Empty(t, result)
}

func TestParallelMapSingle(t *testing.T) {
	result := ParallelMap([]int{42}, 4, func(i int) int { return i * 2 })
	require.Equal(t, []int{84}, result)
}

func TestParallelMapOrderPreserved(t *testing.T) {
	input := make([]int, 1000)
	for i := range input {
		input[i] = i
	}
	result := ParallelMap(input, 8, func(i int) int { return i * i })
	for i, v := range result {
		require.Equal(t, i*i, v)
	}
}

func TestParallelMapEachOnce(t *testing.T) {
	input := make([]int, 500)
	for i := range input {
		input[i] = i
	}
	var calls int64
	result := ParallelMap(input, 16, func(i int) int {
		atomic.AddInt64(&calls, 1)
		return i
	})
	require.Equal(t, int64(500), calls)
	require.Len(t, result, 500)
}

func TestParallelMapWorkersExceedInput(t *testing.T) {
	result := ParallelMap([]int{1, 2, 3}, 100, func(i int) int { return i + 1 })
	require.Equal(t, []int{2, 3, 4}, result)
}
