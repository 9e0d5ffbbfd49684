package layout

import (
	"fmt"
	"reflect"
	"unsafe"
)

// An Address is a location in the address space of this process.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("%#x", uint64(a))
}

// PageBase rounds a down to a multiple of pageSize.
// pageSize must be a power of 2.
func (a Address) PageBase(pageSize int) Address {
	return a &^ (Address(pageSize) - 1)
}

// addressOf returns the address of v without letting v escape.
func addressOf(v *int) Address {
	return Address(uintptr(unsafe.Pointer(v)))
}

// funcAddress returns the entry point of the function fn.
func funcAddress(fn interface{}) (Address, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0, fmt.Errorf("%T is not a function", fn)
	}
	return Address(v.Pointer()), nil
}
