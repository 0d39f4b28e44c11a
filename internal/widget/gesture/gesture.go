// Package gesture recognizes the swipe-up-to-share gesture on the product
// image.
//
// Recognition is modeled as an explicit state machine: Transition is a pure
// function from (state, session, touch) to the next state plus a list of
// side effects for the caller to perform. Nothing in this package touches
// the page or the network.
package gesture

import "time"

// State is the recognizer's phase.
type State int

const (
	// StateIdle means no touch is being tracked.
	StateIdle State = iota
	// StateTracking means a touch is down and being followed.
	StateTracking
	// StateCompleted means the last gesture qualified as a swipe.
	StateCompleted
	// StateCancelled means the last gesture ended without qualifying.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTracking:
		return "tracking"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Tuning constants for the swipe gesture.
const (
	// SwipeThreshold is the upward travel in pixels that completes a swipe.
	SwipeThreshold = 60.0
	// SwipeMaxDuration is the longest a completing swipe may take.
	SwipeMaxDuration = 400 * time.Millisecond
	// feedbackFloor is the upward travel before visual feedback begins.
	feedbackFloor = 15.0
	// initiatedFloor is the upward travel that counts as a started swipe.
	initiatedFloor = 20.0
	// damping scales finger travel into image translation.
	damping = 0.3
	// maxTranslate caps the image translation in pixels.
	maxTranslate = 30.0
	// scaleFactor shrinks the image slightly as the swipe progresses.
	scaleFactor = 0.02
)

// TouchKind distinguishes the touch events the recognizer consumes.
type TouchKind int

const (
	TouchStart TouchKind = iota
	TouchMove
	TouchEnd
)

// Touch is one touch event in page coordinates.
type Touch struct {
	Kind TouchKind
	X    float64
	Y    float64
	At   time.Time
}

// Session is the per-gesture tracking state threaded through Transition.
// Swiping latches once a move qualifies as upward and vertically dominant;
// it stays set for the rest of the session even if later moves do not
// qualify.
type Session struct {
	StartX            float64
	StartY            float64
	StartedAt         time.Time
	Swiping           bool
	InitiatedReported bool
}

// Effect is a side effect the caller must perform after a transition.
type Effect interface{ effect() }

// FeedbackEffect updates the product image and overlay to track the finger.
type FeedbackEffect struct {
	TranslateY     float64
	Scale          float64
	OverlayOpacity float64
	OverlayReady   bool
	SuppressScroll bool
}

// ClearFeedbackEffect restores the product image and hides the overlay.
type ClearFeedbackEffect struct{}

// EmitEffect reports an analytics event.
type EmitEffect struct {
	Event string
	Attrs map[string]any
}

// ShareEffect triggers the share action.
type ShareEffect struct{}

func (FeedbackEffect) effect()      {}
func (ClearFeedbackEffect) effect() {}
func (EmitEffect) effect()          {}
func (ShareEffect) effect()         {}

// Analytics event names produced by the recognizer.
const (
	EventInitiated = "swipe_initiated"
	EventCompleted = "swipe_completed"
	EventCancelled = "swipe_cancelled"
)

// Transition advances the state machine by one touch event. It is pure: the
// same inputs always yield the same next state, session, and effects.
//
// Upward travel is startY minus the current Y, so positive means up.
// Completed and Cancelled are terminal; callers reset to Idle by feeding
// the next TouchStart. A touch-end in a session whose Swiping flag never
// latched is a tap and returns to Idle with no effects.
func Transition(state State, sess Session, touch Touch) (State, Session, []Effect) {
	switch touch.Kind {
	case TouchStart:
		return StateTracking, Session{
			StartX:    touch.X,
			StartY:    touch.Y,
			StartedAt: touch.At,
		}, nil

	case TouchMove:
		if state != StateTracking {
			return state, sess, nil
		}
		deltaY := sess.StartY - touch.Y
		deltaX := touch.X - sess.StartX
		if deltaY <= feedbackFloor || abs(deltaY) <= abs(deltaX) {
			return state, sess, []Effect{ClearFeedbackEffect{}}
		}
		sess.Swiping = true

		var effects []Effect
		if deltaY > initiatedFloor && !sess.InitiatedReported {
			sess.InitiatedReported = true
			effects = append(effects, EmitEffect{Event: EventInitiated})
		}

		progress := min(deltaY/SwipeThreshold, 1)
		effects = append(effects, FeedbackEffect{
			TranslateY:     min(deltaY*damping, maxTranslate),
			Scale:          1 - progress*scaleFactor,
			OverlayOpacity: progress,
			OverlayReady:   progress >= 1,
			SuppressScroll: true,
		})
		return StateTracking, sess, effects

	case TouchEnd:
		if state != StateTracking {
			return state, sess, nil
		}
		// A session that never entered the swipe is a plain tap.
		if !sess.Swiping {
			return StateIdle, sess, nil
		}
		deltaY := sess.StartY - touch.Y
		duration := touch.At.Sub(sess.StartedAt)

		if deltaY >= SwipeThreshold && duration <= SwipeMaxDuration {
			return StateCompleted, sess, []Effect{
				ClearFeedbackEffect{},
				EmitEffect{Event: EventCompleted, Attrs: endAttrs(deltaY, duration)},
				ShareEffect{},
			}
		}

		return StateCancelled, sess, []Effect{
			ClearFeedbackEffect{},
			EmitEffect{Event: EventCancelled, Attrs: endAttrs(deltaY, duration)},
		}
	}
	return state, sess, nil
}

func endAttrs(deltaY float64, duration time.Duration) map[string]any {
	return map[string]any{
		"delta_y":       deltaY,
		"delta_time_ms": duration.Milliseconds(),
	}
}

// FeedbackSurface applies visual feedback to the product image and overlay.
type FeedbackSurface interface {
	ApplyFeedback(FeedbackEffect)
	ClearFeedback()
}

// Recognizer owns the state machine and routes effects to its collaborators.
type Recognizer struct {
	state   State
	session Session
	surface FeedbackSurface
	emit    func(event string, attrs map[string]any)
	share   func()
}

// NewRecognizer builds a recognizer. Any collaborator may be nil; the
// matching effects are then dropped.
func NewRecognizer(surface FeedbackSurface, emit func(string, map[string]any), share func()) *Recognizer {
	return &Recognizer{surface: surface, emit: emit, share: share}
}

// State returns the current recognizer state.
func (r *Recognizer) State() State {
	if r == nil {
		return StateIdle
	}
	return r.state
}

// Handle feeds one touch event through the state machine and performs the
// resulting effects. Terminal states reset to Idle before the next start.
func (r *Recognizer) Handle(touch Touch) {
	if r == nil {
		return
	}
	if touch.Kind == TouchStart && (r.state == StateCompleted || r.state == StateCancelled) {
		r.state = StateIdle
	}
	next, session, effects := Transition(r.state, r.session, touch)
	r.state = next
	r.session = session
	for _, effect := range effects {
		r.perform(effect)
	}
}

func (r *Recognizer) perform(effect Effect) {
	switch e := effect.(type) {
	case FeedbackEffect:
		if r.surface != nil {
			r.surface.ApplyFeedback(e)
		}
	case ClearFeedbackEffect:
		if r.surface != nil {
			r.surface.ClearFeedback()
		}
	case EmitEffect:
		if r.emit != nil {
			r.emit(e.Event, e.Attrs)
		}
	case ShareEffect:
		if r.share != nil {
			r.share()
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
