package hybridrow

import "sync"

var scratchPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 256)
	},
}

func getScratch() []byte {
	return scratchPool.Get().([]byte)[:0]
}

func releaseScratch(b []byte) {
	if cap(b) <= 64*1024 {
		scratchPool.Put(b[:0])
	}
}
