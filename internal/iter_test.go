package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := slices.All([]string{"a", "b"})
	second := slices.All([]string{"c"})

	var keys []int
	var values []string
	for key, value := range IterSeq2Concat(first, second) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]int{0, 1, 0}, keys)
	assert.Equal([]string{"a", "b", "c"}, values)

	values = nil
	for _, value := range IterSeq2Concat(first, second) {
		values = append(values, value)
		if value == "b" {
			break
		}
	}
	assert.Equal([]string{"a", "b"}, values)
}

func TestIterSorted(t *testing.T) {
	assert := assert.New(t)

	cells := map[int]int64{509: 81, 100: 1, -3: 7, 200: 4}

	var addrs []int
	for addr, value := range IterSorted(cells) {
		addrs = append(addrs, addr)
		assert.Equal(cells[addr], value)
	}
	assert.Equal([]int{-3, 100, 200, 509}, addrs)
	assert.Equal(slices.Sorted(maps.Keys(cells)), addrs)

	for range IterSorted(map[string]int{}) {
		assert.Fail("empty map")
	}
}
