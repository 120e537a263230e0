package camera

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction is one axis of free camera movement.
type Direction int

const (
	DirectionForward Direction = iota
	DirectionBackward
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
	directionCount
)

type positionControllerImpl struct {
	mu *sync.Mutex

	speed  float32
	inputs [directionCount]float32
}

// PositionController moves a Camera from directional inputs. Each input is a
// weight, usually 0 or 1 from a key or a fraction from a joystick. Forward and
// left ignore the pitch so the camera walks in the horizontal plane; up and
// down move along world Y.
type PositionController interface {
	// Speed returns the movement speed in world units per millisecond.
	//
	// Returns:
	//   - float32: the movement speed
	Speed() float32

	// SetSpeed sets the movement speed in world units per millisecond.
	//
	// Parameters:
	//   - speed: the movement speed
	SetSpeed(speed float32)

	// Input returns the weight of one direction.
	//
	// Parameters:
	//   - dir: the direction to read
	//
	// Returns:
	//   - float32: the current weight
	Input(dir Direction) float32

	// SetInput sets the weight of one direction.
	//
	// Parameters:
	//   - dir: the direction to set
	//   - weight: 0 for idle, 1 for full speed
	SetInput(dir Direction, weight float32)

	// Movement computes the eye offset for a view over the elapsed time.
	//
	// Parameters:
	//   - view: the view whose yaw orients the movement
	//   - elapsed: time since the previous update
	//
	// Returns:
	//   - mgl32.Vec3: the world-space offset
	Movement(view View, elapsed time.Duration) mgl32.Vec3

	// Update moves the camera by the offset Movement computes for its current view.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - elapsed: time since the previous update
	Update(cam Camera, elapsed time.Duration)
}

var _ PositionController = &positionControllerImpl{}

// NewPositionController creates a controller moving at 0.01 units per millisecond.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - PositionController: the newly created controller
func NewPositionController(options ...PositionControllerOption) PositionController {
	pc := &positionControllerImpl{
		mu:    &sync.Mutex{},
		speed: 0.01,
	}
	for _, option := range options {
		option(pc)
	}
	return pc
}

func (pc *positionControllerImpl) Speed() float32 {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.speed
}

func (pc *positionControllerImpl) SetSpeed(speed float32) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.speed = speed
}

func (pc *positionControllerImpl) Input(dir Direction) float32 {
	if dir < 0 || dir >= directionCount {
		return 0
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.inputs[dir]
}

func (pc *positionControllerImpl) SetInput(dir Direction, weight float32) {
	if dir < 0 || dir >= directionCount {
		return
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.inputs[dir] = weight
}

func (pc *positionControllerImpl) Movement(view View, elapsed time.Duration) mgl32.Vec3 {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	distance := pc.speed * float32(elapsed.Milliseconds())
	var movement mgl32.Vec3

	forward := view.FrontIgnorePitch(0).Mul(distance)
	movement = movement.Add(forward.Mul(pc.inputs[DirectionForward]))
	movement = movement.Sub(forward.Mul(pc.inputs[DirectionBackward]))

	left := view.FrontIgnorePitch(-90).Mul(distance)
	movement = movement.Add(left.Mul(pc.inputs[DirectionLeft]))
	movement = movement.Sub(left.Mul(pc.inputs[DirectionRight]))

	movement[1] += distance * pc.inputs[DirectionUp]
	movement[1] -= distance * pc.inputs[DirectionDown]
	return movement
}

func (pc *positionControllerImpl) Update(cam Camera, elapsed time.Duration) {
	cam.MoveEye(pc.Movement(cam.View(), elapsed))
}
