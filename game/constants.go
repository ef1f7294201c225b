package game

import "math"

// Locomotion defaults.
const (
	MaxMoveSpeed         = 7.5
	Gravity              = -50.0
	JumpStrength         = 18.0
	PlayerTurnRate       = 10.0
	InputDeadzone        = 0.1
	LandingCooldown      = 0.2
	WallProbeHeight      = 0.5
	WallProbeDistance    = 0.8
	WallNormalLimit      = 0.707
	FloorProbeHeight     = 2.0
	FloorProbeDistance   = 10.0
	FloorSnapBand        = 0.5
	FloorSnapFraction    = 0.5
	MomentumDecayRate    = 5.0
	PlayerFlashDuration  = 0.2
	BoltSpeed            = 20.0
	BoltLifetime         = 2.0
	BoltHeight           = 1.2
	BoltHitRadius        = 1.0
	MaxBolts             = 8
	MaxFrameDelta        = 0.1
	DefaultFrameDuration = 1.0 / ReferenceFrameRate
)

// Camera defaults.
const (
	CameraRadius          = 4.5
	CameraMinRadius       = 1.5
	CameraPolar           = 0.45
	CameraAzimuth         = math.Pi
	CameraHeadHeight      = 1.5
	CameraOcclusionMargin = 0.2
	CameraSmoothing       = 0.25
	CameraDragSensitivity = 0.008
	CameraPolarMin        = 0.1
	CameraPolarMax        = math.Pi/2 - 0.1

	CinematicFirstDuration  = 2.0
	CinematicSecondDuration = 3.0
	CinematicFirstDistance  = 3.0
	CinematicFirstHeight    = 1.5
	CinematicSecondDistance = 15.0
	CinematicSecondHeight   = 6.0
	CinematicFocusHeight    = 2.0

	ReturnDuration   = 2.0
	ReturnRadius     = 4.17
	ReturnPolar      = 0.87
	ReturnRadiusLead = 3.0
)

// Adversary defaults.
const (
	AdversaryHealth     = 3
	PathSpeed           = 6.0
	PathLoopIndex       = 17
	PathDivisions       = 200
	BankLookAhead       = 0.02
	BankIntensity       = 8.0
	BankLimit           = 0.5
	BankRate            = 2.0
	MoveToTurnRate      = 5.0
	IntroDuration       = 4.0
	SpringTension       = 150.0
	SpringDamping       = 10.0
	HitImpulse          = -6.0
	AdversaryFlash      = 0.15
	PathShootInterval   = 3.5
	ProjectileLateral   = 0.6
	ProjectileLift      = 0.2
	ProjectileForward   = 2.5
	ProjectileSpeed     = 30.0
	ProjectileLifetime  = 1.5
	ProjectileHitRadius = 1.0

	FlightMaxSpeed         = 3.5
	FlightMaxForce         = 2.0
	FlightArrivalRadius    = 10.0
	FlightMinTargetDist    = 15.0
	FlightConeDot          = -0.2
	FlightTargetAttempts   = 15
	FlightBoundsPadding    = 5.0
	FlightBoundsExtent     = 40.0
	FlightTargetAltitude   = 1.5
	FlightTargetAltRange   = 2.0
	FlightFallbackAltitude = 2.0
	FlightAltitudeFloor    = 1.0
	FlightAltitudeCeiling  = 3.5
	FlightAltitudeNudge    = 0.05
	FlightBankFactor       = 2.0
	FlightBankLimit        = 0.3
	FlightTurnRate         = 3.0
	FlightShootInterval    = 5.0
	FlightMinTurnSpeedSqr  = 0.1
)

// Mount defaults.
const (
	MountProbeLift        = 1.0
	MountProbeDistance    = 1.5
	MountHorizontalRadius = 1.4
	MountBandLow          = 0.0
	MountBandHigh         = 2.5
	MountFollowRate       = 8.0
	MountFollowSpeedSqr   = 0.1
	MountRollFactor       = 0.5
	MountRollRate         = 5.0
	JumpFacingSpeedSqr    = 0.01
)
