package chainmap

import (
	"testing"
)

func BenchmarkMapGetSmall(b *testing.B) {
	benchmarkMapGet(b, testDataSmall[:])
}

func BenchmarkMapGet(b *testing.B) {
	benchmarkMapGet(b, testData[:])
}

func BenchmarkMapGetLarge(b *testing.B) {
	benchmarkMapGet(b, testDataLarge[:])
}

func benchmarkMapGet(b *testing.B, data []string) {
	b.ReportAllocs()
	m := New[string, int]()
	for i := range data {
		m.Put(data[i], i)
	}
	b.ResetTimer()
	i := 0
	for n := 0; n < b.N; n++ {
		_, _ = m.Get(data[i])
		i++
		if i >= len(data) {
			i = 0
		}
	}
}

func BenchmarkMapGetInt(b *testing.B) {
	benchmarkMapGetInt(b, testDataInt[:])
}

func BenchmarkMapGetIntLarge(b *testing.B) {
	benchmarkMapGetInt(b, testDataIntLarge[:])
}

func benchmarkMapGetInt(b *testing.B, data []int) {
	b.ReportAllocs()
	m := New[int, int]()
	for i := range data {
		m.Put(data[i], i)
	}
	b.ResetTimer()
	i := 0
	for n := 0; n < b.N; n++ {
		_, _ = m.Get(data[i])
		i++
		if i >= len(data) {
			i = 0
		}
	}
}

func BenchmarkMapPutGrowing(b *testing.B) {
	benchmarkMapPutGrowing(b, testDataIntLarge[:], nil)
}

func BenchmarkMapPutPresized(b *testing.B) {
	benchmarkMapPutGrowing(b, testDataIntLarge[:], []func(*MapConfig){WithCapacity(len(testDataIntLarge))})
}

func benchmarkMapPutGrowing(b *testing.B, data []int, options []func(*MapConfig)) {
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		m := New[int, int](options...)
		for i := range data {
			m.Put(data[i], i)
		}
	}
}

func BenchmarkMapPutRemove(b *testing.B) {
	benchmarkMapPutRemove(b, testData[:])
}

func BenchmarkMapPutRemoveShrink(b *testing.B) {
	benchmarkMapPutRemove(b, testData[:], WithAutoShrink())
}

func benchmarkMapPutRemove(b *testing.B, data []string, options ...func(*MapConfig)) {
	b.ReportAllocs()
	m := New[string, int](options...)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range data {
			m.Put(data[i], i)
		}
		for i := range data {
			m.Remove(data[i])
		}
	}
}

func BenchmarkMapIter(b *testing.B) {
	b.ReportAllocs()
	m := New[int, int]()
	for i := range testDataInt {
		m.Put(testDataInt[i], i)
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		it := m.Iter()
		for it.Next() {
			_ = it.Value()
		}
	}
}

func BenchmarkMapCompute(b *testing.B) {
	b.ReportAllocs()
	m := New[string, int]()
	inc := func(_ string, v int, _ bool) int { return v + 1 }
	b.ResetTimer()
	i := 0
	for n := 0; n < b.N; n++ {
		m.Compute(testData[i], inc)
		i++
		if i >= len(testData) {
			i = 0
		}
	}
}
