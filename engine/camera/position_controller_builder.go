package camera

// PositionControllerOption is a functional option for configuring a PositionController.
type PositionControllerOption func(*positionControllerImpl)

// WithSpeed sets the movement speed.
//
// Parameters:
//   - speed: world units per millisecond
//
// Returns:
//   - PositionControllerOption: functional option to set the speed
func WithSpeed(speed float32) PositionControllerOption {
	return func(pc *positionControllerImpl) {
		pc.speed = speed
	}
}
