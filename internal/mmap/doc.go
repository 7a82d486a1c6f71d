// Package mmap maps snapshot files read-only into memory.
//
//	m, err := mmap.Open("metric.tns")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes() // valid until Close
//
// Unix uses mmap(2) and madvise(2); Windows uses CreateFileMapping and
// MapViewOfFile, where Advise is a no-op.
package mmap
