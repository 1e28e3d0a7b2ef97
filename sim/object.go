package sim

// An Object is a named participant in a simulation whose lifetime is
// tracked with reference counting. Events scheduled for an object keep it
// alive until they fire or are cancelled.
//
// Destruction is two-phase. Dropping the last reference runs Dispose, which
// releases what the object holds (cancelling pending events, closing
// backends, breaking reference cycles). Reclaiming the memory itself stays
// the garbage collector's job.
type Object interface {
	// Name returns the name of the object. Names within one simulation are
	// expected to be unique.
	Name() string

	// Ref takes one additional reference on the object.
	Ref()

	// Unref drops one reference. Dropping the last reference disposes the
	// object.
	Unref()

	// Dispose releases everything the object holds. Disposing twice is a
	// no-op.
	Dispose()

	// IsDisposed reports whether Dispose has run.
	IsDisposed() bool
}

// ObjectBase provides the default implementation of the Object interface.
// Embed it in any struct that participates in a simulation.
//
// A freshly created ObjectBase carries one reference, owned by the creator.
type ObjectBase struct {
	name       string
	refCount   int
	disposed   bool
	disposeFns []func()
}

// NewObjectBase creates an ObjectBase with the given name. The caller owns
// the initial reference.
func NewObjectBase(name string) *ObjectBase {
	return &ObjectBase{
		name:     name,
		refCount: 1,
	}
}

// Name returns the name of the object.
func (o *ObjectBase) Name() string {
	return o.name
}

// Ref takes one additional reference. Taking a reference on an object whose
// last reference is already gone is a usage error.
func (o *ObjectBase) Ref() {
	if o.refCount <= 0 {
		violateContract("Ref", "object %s is already released", o.name)
	}

	o.refCount++
}

// Unref drops one reference, disposing the object when the count reaches
// zero. Dropping a reference that was never taken is a usage error.
func (o *ObjectBase) Unref() {
	if o.refCount <= 0 {
		violateContract("Unref", "object %s is already released", o.name)
	}

	o.refCount--
	if o.refCount == 0 {
		o.Dispose()
	}
}

// RefCount returns the number of references currently held on the object.
func (o *ObjectBase) RefCount() int {
	return o.refCount
}

// Dispose runs the registered dispose callbacks in reverse registration
// order. It runs at most once; later calls are no-ops.
func (o *ObjectBase) Dispose() {
	if o.disposed {
		return
	}

	o.disposed = true

	for i := len(o.disposeFns) - 1; i >= 0; i-- {
		o.disposeFns[i]()
	}

	o.disposeFns = nil
}

// IsDisposed reports whether Dispose has run.
func (o *ObjectBase) IsDisposed() bool {
	return o.disposed
}

// OnDispose registers a callback to run when the object is disposed.
// Callbacks run in reverse registration order.
func (o *ObjectBase) OnDispose(fn func()) {
	if fn == nil {
		violateContract("OnDispose", "nil callback")
	}

	if o.disposed {
		violateContract("OnDispose", "object %s is already disposed", o.name)
	}

	o.disposeFns = append(o.disposeFns, fn)
}
