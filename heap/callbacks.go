package heap

// AllocateCallback is called after Alloc commits an allocation
type AllocateCallback func(
	arena *Arena,
	address Address,
	size int,
	userData any,
)

// FreeCallback is called after Free releases an allocation
type FreeCallback func(
	arena *Arena,
	address Address,
	size int,
	userData any,
)

// CallbackOptions is an optional set of hooks that are called as allocations are made and released.
// The callbacks run while the arena's lock is held and must not call back into the arena.
type CallbackOptions struct {
	Allocate AllocateCallback
	Free     FreeCallback
	UserData any
}

type arenaCallbacks struct {
	Callbacks *CallbackOptions
	Arena     *Arena
}

func (c *arenaCallbacks) Allocate(address Address, size int) {
	if c.Callbacks != nil && c.Callbacks.Allocate != nil {
		c.Callbacks.Allocate(c.Arena, address, size, c.Callbacks.UserData)
	}
}

func (c *arenaCallbacks) Free(address Address, size int) {
	if c.Callbacks != nil && c.Callbacks.Free != nil {
		c.Callbacks.Free(c.Arena, address, size, c.Callbacks.UserData)
	}
}
