package reactive

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Bookkeeping keys live in the same string keyspace as user data, so they
// carry a NUL prefix plus an xxhash of their name. User code has no reason
// to mint such keys; everything with the prefix is excluded from
// enumeration and from sync.
const bookkeepingPrefix = "\x00ur:"

func symbol(name string) string {
	return fmt.Sprintf("%s%s#%016x", bookkeepingPrefix, name, xxhash.Sum64String(name))
}

func isBookkeepingKey(key string) bool {
	return len(key) >= len(bookkeepingPrefix) && key[:len(bookkeepingPrefix)] == bookkeepingPrefix
}

var refKeyInstance = symbol("instance")

// objectID is the identity of a tracked object: the pointer of its map
// header. Two Object values share an id iff they are the same map.
func objectID(o Object) uintptr {
	if o == nil {
		return 0
	}
	return reflect.ValueOf(o).Pointer()
}
