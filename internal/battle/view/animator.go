package view

import "time"

// Animation is one visual step with a wall-clock duration. OnComplete, when
// set, fires as the step finishes; nothing outside the owning node ever
// waits on it.
type Animation struct {
	Name       string
	Duration   time.Duration
	OnComplete func()
}

// Animator serializes one node's animations through an internal FIFO queue.
// Events may arrive while a prior animation is still playing; the new steps
// queue up instead of clobbering the current one. Progress is driven by
// host ticks, never by the bus.
type Animator struct {
	queue   []Animation
	current *Animation
	started time.Time
}

// NewAnimator creates an idle animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Play enqueues an animation, starting it immediately when idle.
func (a *Animator) Play(anim Animation) {
	if a.current == nil {
		a.start(anim)
		return
	}
	a.queue = append(a.queue, anim)
}

func (a *Animator) start(anim Animation) {
	a.current = &anim
	a.started = time.Now()
}

// Update advances the animator: completes the current step when its time is
// up and starts the next queued one. Safe to call while idle.
func (a *Animator) Update(now time.Time) {
	for a.current != nil && !now.Before(a.started.Add(a.current.Duration)) {
		done := a.current
		finishedAt := a.started.Add(done.Duration)
		a.current = nil
		if done.OnComplete != nil {
			done.OnComplete()
		}
		if len(a.queue) > 0 {
			next := a.queue[0]
			a.queue = a.queue[1:]
			// The next step starts on the shared timeline where the prior
			// one ended, so a late tick drains the backlog in one pass.
			a.start(next)
			a.started = finishedAt
		}
	}
}

// Busy reports whether an animation is playing or queued.
func (a *Animator) Busy() bool {
	return a.current != nil || len(a.queue) > 0
}

// Pending returns the number of queued steps, excluding the current one.
func (a *Animator) Pending() int {
	return len(a.queue)
}

// Current returns the name of the playing animation, empty when idle.
func (a *Animator) Current() string {
	if a.current == nil {
		return ""
	}
	return a.current.Name
}

// Stop discards the current and queued animations without firing their
// completion callbacks. Teardown must call this so no animation can land on
// a destroyed node.
func (a *Animator) Stop() {
	a.current = nil
	a.queue = nil
}
