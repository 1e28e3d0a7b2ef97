package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("eventQueue", func() {
	var queue *eventQueue

	BeforeEach(func() {
		queue = newEventQueue()
	})

	It("should pop in order", func() {
		rng := rand.New(rand.NewSource(1))

		numEvents := 100
		for i := 0; i < numEvents; i++ {
			queue.insert(&event{
				time: Picoseconds(rng.Int63n(20)),
				uid:  EventUid(i),
			})
		}

		lastTime := VTime(-1)
		lastUid := EventUid(0)
		for i := 0; i < numEvents; i++ {
			ev := queue.popNext()
			Expect(ev).NotTo(BeNil())
			Expect(ev.time >= lastTime).To(BeTrue())
			if ev.time == lastTime {
				Expect(ev.uid > lastUid).To(BeTrue())
			}
			lastTime = ev.time
			lastUid = ev.uid
		}

		Expect(queue.popNext()).To(BeNil())
	})

	It("should skip cancelled events", func() {
		first := &event{time: Picoseconds(1), uid: 0}
		second := &event{time: Picoseconds(2), uid: 1}
		third := &event{time: Picoseconds(3), uid: 2}

		queue.insert(first)
		queue.insert(second)
		queue.insert(third)

		second.state = stateCancelled
		queue.noteCancelled()

		Expect(queue.len()).To(Equal(2))
		Expect(queue.popNext()).To(BeIdenticalTo(first))
		Expect(queue.popNext()).To(BeIdenticalTo(third))
		Expect(queue.popNext()).To(BeNil())
	})

	It("should peek without removing", func() {
		first := &event{time: Picoseconds(1), uid: 0}
		second := &event{time: Picoseconds(2), uid: 1}

		queue.insert(first)
		queue.insert(second)

		first.state = stateCancelled
		queue.noteCancelled()

		Expect(queue.peekNext()).To(BeIdenticalTo(second))
		Expect(queue.len()).To(Equal(1))
		Expect(queue.popNext()).To(BeIdenticalTo(second))
	})

	It("should compact once stale records dominate", func() {
		numEvents := 200
		events := make([]*event, 0, numEvents)
		for i := 0; i < numEvents; i++ {
			ev := &event{time: Picoseconds(int64(i)), uid: EventUid(i)}
			events = append(events, ev)
			queue.insert(ev)
		}

		for i := 0; i < 150; i++ {
			events[i].state = stateCancelled
			queue.noteCancelled()
		}

		// Compaction kicked in somewhere along the way, so the heap no
		// longer holds a record for everything ever cancelled.
		Expect(queue.events.Len()).To(BeNumerically("<", 150))
		Expect(queue.len()).To(Equal(50))

		lastTime := VTime(-1)
		for ev := queue.popNext(); ev != nil; ev = queue.popNext() {
			Expect(ev.time > lastTime).To(BeTrue())
			lastTime = ev.time
		}
	})

	It("should drain pending events and surface their targets", func() {
		target := NewObjectBase("worker")

		plain := &event{time: Picoseconds(1), uid: 0, fn: func() {}}
		owned := &event{
			time: Picoseconds(2), uid: 1, fn: func() {}, target: target,
		}
		cancelled := &event{time: Picoseconds(3), uid: 2}
		cancelled.state = stateCancelled

		queue.insert(plain)
		queue.insert(owned)
		queue.insert(cancelled)
		queue.noteCancelled()

		targets := queue.drain()

		Expect(targets).To(HaveLen(1))
		Expect(targets[0]).To(BeIdenticalTo(Object(target)))
		Expect(plain.state).To(Equal(stateCancelled))
		Expect(plain.fn).To(BeNil())
		Expect(queue.len()).To(Equal(0))
		Expect(queue.popNext()).To(BeNil())
	})
})
