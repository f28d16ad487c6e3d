package chainmap_test

import (
	"errors"
	"fmt"

	"github.com/llxisdsh/chainmap"
)

func ExampleMap() {
	m := chainmap.New[int, int]()
	fmt.Println(m.Put(1, 2))
	fmt.Println(m.Put(1, 3))
	fmt.Println(m.Get(1))
	fmt.Println(m.Size())
	// Output:
	// 0 false
	// 2 true
	// 3 true
	// 1
}

func ExampleMap_CompareAndRemove() {
	m := chainmap.New[int, int]()
	m.Put(1, 45)
	fmt.Println(m.CompareAndRemove(1, 22))
	fmt.Println(m.Size())
	fmt.Println(m.Remove(1))
	fmt.Println(m.Size())
	// Output:
	// 0 false
	// 1
	// 45 true
	// 0
}

func ExampleMap_Compute() {
	counts := chainmap.New[string, int]()
	for _, w := range []string{"a", "b", "a", "a"} {
		counts.Compute(w, func(_ string, n int, _ bool) int { return n + 1 })
	}
	fmt.Println(counts.Get("a"))
	fmt.Println(counts.ComputeIfAbsent("a", func(string, int, bool) int { return 0 }))
	// Output:
	// 3 true
	// 3
}

func ExampleMap_Iter() {
	m := chainmap.New[int, string]()
	m.Put(1, "a")
	m.Put(2, "b")

	it := m.Iter()
	for it.Next() {
		fmt.Println(it.Key(), it.Value())
	}
	if err := it.Err(); err != nil {
		fmt.Println(err)
	}

	it = m.Iter()
	it.Next()
	m.Put(3, "c")
	it.Next()
	fmt.Println(errors.Is(it.Err(), chainmap.ErrConcurrentModification))
	// Output:
	// 1 a
	// 2 b
	// true
}

func ExampleMap_String() {
	m := chainmap.New[int, string]()
	m.Put(1, "a")
	m.Put(17, "b")
	m.Put(2, "c")
	fmt.Println(m)
	// Output:
	// [1=a], [17=b], [2=c]
}
