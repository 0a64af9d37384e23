package slabarena_test

import (
	"fmt"

	"github.com/hupe1980/slabarena"
)

func Example() {
	// 1024 slots of 48 bytes; physical pages are committed only as
	// slots are touched.
	a, err := slabarena.New("records", 48, 1024)
	if err != nil {
		panic(err)
	}
	defer a.Close()

	addr, ok := a.Alloc()
	if !ok {
		panic("exhausted")
	}
	copy(a.Bytes(addr), []byte("hello"))

	fmt.Println(a.InRange(addr))
	fmt.Println(string(a.Bytes(addr)[:5]))

	a.Free(addr)
	// A freed slot stays in range until Close: the bump pointer
	// never retreats.
	fmt.Println(a.InRange(addr))

	// Output:
	// true
	// hello
	// true
}
