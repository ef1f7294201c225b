package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/oerror"
	"github.com/pelletier/go-toml/v2"
)

// Settings contains every tunable value of the simulation core.
type Settings struct {
	Session    Session
	Locomotion Locomotion
	Camera     Camera
	Adversary  Adversary
	Flight     Flight
	Mount      Mount
}

// Session holds the frame loop settings.
type Session struct {
	// MaxFrameDelta is the largest dt a single frame may simulate, in seconds.
	MaxFrameDelta float64
}

// Locomotion holds the player movement settings.
type Locomotion struct {
	MaxSpeed        float64
	Gravity         float64
	JumpStrength    float64
	TurnRate        float64
	Deadzone        float64
	LandingCooldown float64

	WallProbeHeight   float64
	WallProbeDistance float64
	// WallNormalLimit is the largest vertical normal component a hit may have to count as a wall.
	WallNormalLimit float64

	FloorProbeHeight   float64
	FloorProbeDistance float64
	FloorSnapBand      float64
	// FloorSnapFraction is the fraction of the gap to the floor closed per 60Hz tick.
	FloorSnapFraction float64

	MomentumDecayRate float64
	FlashDuration     float64

	BoltSpeed     float64
	BoltLifetime  float64
	BoltHeight    float64
	BoltHitRadius float64
	MaxBolts      int
}

// Camera holds the camera rig settings.
type Camera struct {
	Radius          float64
	MinRadius       float64
	Polar           float64
	Azimuth         float64
	HeadHeight      float64
	OcclusionMargin float64
	Smoothing       float64
	DragSensitivity float64
	PolarMin        float64
	PolarMax        float64

	FirstShotDuration  float64
	SecondShotDuration float64
	FirstShotDistance  float64
	FirstShotHeight    float64
	SecondShotDistance float64
	SecondShotHeight   float64
	FocusHeight        float64

	ReturnDuration   float64
	ReturnRadius     float64
	ReturnPolar      float64
	ReturnRadiusLead float64
}

// Adversary holds the settings shared by both adversary behaviours, plus the path behaviour.
type Adversary struct {
	ID     string
	Health int

	PathSpeed     float64
	LoopIndex     int
	LookAhead     float64
	BankIntensity float64
	BankLimit     float64
	BankRate      float64
	// BankSign flips the direction the adversary leans into turns. It must be 1 or -1.
	BankSign       float64
	MoveToTurnRate float64
	IntroDuration  float64

	SpringTension float64
	SpringDamping float64
	HitImpulse    float64
	FlashDuration float64

	ShootInterval       float64
	ProjectileLateral   float64
	ProjectileLift      float64
	ProjectileForward   float64
	ProjectileSpeed     float64
	ProjectileLifetime  float64
	ProjectileHitRadius float64

	// ProxyOffset is the local offset of the stomp proxy from the adversary origin.
	ProxyOffset [3]float64
	// ProxyHalfExtents are the local half extents of the stomp proxy box. A zero vector disables it.
	ProxyHalfExtents [3]float64
}

// Flight holds the free flight behaviour settings.
type Flight struct {
	// Seed is hashed to seed target selection, so that a seed always produces the same flight.
	Seed string

	MaxSpeed       float64
	MaxForce       float64
	ArrivalRadius  float64
	MinTargetDist  float64
	ConeDot        float64
	TargetAttempts int
	BoundsPadding  float64
	BoundsExtent   float64

	TargetAltitude   float64
	TargetAltRange   float64
	FallbackAltitude float64
	AltitudeFloor    float64
	AltitudeCeiling  float64
	AltitudeNudge    float64

	BankFactor    float64
	BankLimit     float64
	TurnRate      float64
	MinTurnSpeed  float64
	ShootInterval float64
}

// Mount holds the mount arbitration settings.
type Mount struct {
	ProbeLift        float64
	ProbeDistance    float64
	HorizontalRadius float64
	BandLow          float64
	BandHigh         float64
	FollowRate       float64
	FollowSpeedSqr   float64
	RollFactor       float64
	RollRate         float64
}

// DefaultSettings returns the default settings of the simulation.
func DefaultSettings() Settings {
	s := Settings{}
	s.Session.MaxFrameDelta = game.MaxFrameDelta

	l := &s.Locomotion
	l.MaxSpeed = game.MaxMoveSpeed
	l.Gravity = game.Gravity
	l.JumpStrength = game.JumpStrength
	l.TurnRate = game.PlayerTurnRate
	l.Deadzone = game.InputDeadzone
	l.LandingCooldown = game.LandingCooldown
	l.WallProbeHeight = game.WallProbeHeight
	l.WallProbeDistance = game.WallProbeDistance
	l.WallNormalLimit = game.WallNormalLimit
	l.FloorProbeHeight = game.FloorProbeHeight
	l.FloorProbeDistance = game.FloorProbeDistance
	l.FloorSnapBand = game.FloorSnapBand
	l.FloorSnapFraction = game.FloorSnapFraction
	l.MomentumDecayRate = game.MomentumDecayRate
	l.FlashDuration = game.PlayerFlashDuration
	l.BoltSpeed = game.BoltSpeed
	l.BoltLifetime = game.BoltLifetime
	l.BoltHeight = game.BoltHeight
	l.BoltHitRadius = game.BoltHitRadius
	l.MaxBolts = game.MaxBolts

	c := &s.Camera
	c.Radius = game.CameraRadius
	c.MinRadius = game.CameraMinRadius
	c.Polar = game.CameraPolar
	c.Azimuth = game.CameraAzimuth
	c.HeadHeight = game.CameraHeadHeight
	c.OcclusionMargin = game.CameraOcclusionMargin
	c.Smoothing = game.CameraSmoothing
	c.DragSensitivity = game.CameraDragSensitivity
	c.PolarMin = game.CameraPolarMin
	c.PolarMax = game.CameraPolarMax
	c.FirstShotDuration = game.CinematicFirstDuration
	c.SecondShotDuration = game.CinematicSecondDuration
	c.FirstShotDistance = game.CinematicFirstDistance
	c.FirstShotHeight = game.CinematicFirstHeight
	c.SecondShotDistance = game.CinematicSecondDistance
	c.SecondShotHeight = game.CinematicSecondHeight
	c.FocusHeight = game.CinematicFocusHeight
	c.ReturnDuration = game.ReturnDuration
	c.ReturnRadius = game.ReturnRadius
	c.ReturnPolar = game.ReturnPolar
	c.ReturnRadiusLead = game.ReturnRadiusLead

	a := &s.Adversary
	a.ID = "mask"
	a.Health = game.AdversaryHealth
	a.PathSpeed = game.PathSpeed
	a.LoopIndex = game.PathLoopIndex
	a.LookAhead = game.BankLookAhead
	a.BankIntensity = game.BankIntensity
	a.BankLimit = game.BankLimit
	a.BankRate = game.BankRate
	a.BankSign = 1
	a.MoveToTurnRate = game.MoveToTurnRate
	a.IntroDuration = game.IntroDuration
	a.SpringTension = game.SpringTension
	a.SpringDamping = game.SpringDamping
	a.HitImpulse = game.HitImpulse
	a.FlashDuration = game.AdversaryFlash
	a.ShootInterval = game.PathShootInterval
	a.ProjectileLateral = game.ProjectileLateral
	a.ProjectileLift = game.ProjectileLift
	a.ProjectileForward = game.ProjectileForward
	a.ProjectileSpeed = game.ProjectileSpeed
	a.ProjectileLifetime = game.ProjectileLifetime
	a.ProjectileHitRadius = game.ProjectileHitRadius
	a.ProxyOffset = [3]float64{0, 0.6, 0}
	a.ProxyHalfExtents = [3]float64{0.9, 0.1, 0.9}

	f := &s.Flight
	f.Seed = "maskfall"
	f.MaxSpeed = game.FlightMaxSpeed
	f.MaxForce = game.FlightMaxForce
	f.ArrivalRadius = game.FlightArrivalRadius
	f.MinTargetDist = game.FlightMinTargetDist
	f.ConeDot = game.FlightConeDot
	f.TargetAttempts = game.FlightTargetAttempts
	f.BoundsPadding = game.FlightBoundsPadding
	f.BoundsExtent = game.FlightBoundsExtent
	f.TargetAltitude = game.FlightTargetAltitude
	f.TargetAltRange = game.FlightTargetAltRange
	f.FallbackAltitude = game.FlightFallbackAltitude
	f.AltitudeFloor = game.FlightAltitudeFloor
	f.AltitudeCeiling = game.FlightAltitudeCeiling
	f.AltitudeNudge = game.FlightAltitudeNudge
	f.BankFactor = game.FlightBankFactor
	f.BankLimit = game.FlightBankLimit
	f.TurnRate = game.FlightTurnRate
	f.MinTurnSpeed = game.FlightMinTurnSpeedSqr
	f.ShootInterval = game.FlightShootInterval

	m := &s.Mount
	m.ProbeLift = game.MountProbeLift
	m.ProbeDistance = game.MountProbeDistance
	m.HorizontalRadius = game.MountHorizontalRadius
	m.BandLow = game.MountBandLow
	m.BandHigh = game.MountBandHigh
	m.FollowRate = game.MountFollowRate
	m.FollowSpeedSqr = game.MountFollowSpeedSqr
	m.RollFactor = game.MountRollFactor
	m.RollRate = game.MountRollRate
	return s
}

// Validate checks the settings for values the simulation cannot run with.
func (s Settings) Validate() error {
	switch {
	case s.Session.MaxFrameDelta <= 0:
		return oerror.New("session: max frame delta must be positive, got %v", s.Session.MaxFrameDelta)
	case s.Locomotion.MaxSpeed <= 0:
		return oerror.New("locomotion: max speed must be positive, got %v", s.Locomotion.MaxSpeed)
	case s.Locomotion.Gravity > 0:
		return oerror.New("locomotion: gravity must not point up, got %v", s.Locomotion.Gravity)
	case s.Locomotion.FloorSnapFraction <= 0 || s.Locomotion.FloorSnapFraction > 1:
		return oerror.New("locomotion: floor snap fraction must be in (0, 1], got %v", s.Locomotion.FloorSnapFraction)
	case s.Locomotion.MaxBolts < 0:
		return oerror.New("locomotion: max bolts must not be negative, got %v", s.Locomotion.MaxBolts)
	case s.Camera.MinRadius <= 0 || s.Camera.MinRadius > s.Camera.Radius:
		return oerror.New("camera: min radius must be in (0, %v], got %v", s.Camera.Radius, s.Camera.MinRadius)
	case s.Camera.PolarMin >= s.Camera.PolarMax:
		return oerror.New("camera: polar bounds are inverted (%v >= %v)", s.Camera.PolarMin, s.Camera.PolarMax)
	case s.Camera.Smoothing <= 0 || s.Camera.Smoothing > 1:
		return oerror.New("camera: smoothing must be in (0, 1], got %v", s.Camera.Smoothing)
	case s.Adversary.Health <= 0:
		return oerror.New("adversary: health must be positive, got %v", s.Adversary.Health)
	case s.Adversary.BankSign != 1 && s.Adversary.BankSign != -1:
		return oerror.New("adversary: bank sign must be 1 or -1, got %v", s.Adversary.BankSign)
	case s.Adversary.PathSpeed <= 0:
		return oerror.New("adversary: path speed must be positive, got %v", s.Adversary.PathSpeed)
	case s.Adversary.LoopIndex < 0:
		return oerror.New("adversary: loop index must not be negative, got %v", s.Adversary.LoopIndex)
	case s.Flight.MaxSpeed <= 0 || s.Flight.MaxForce <= 0:
		return oerror.New("flight: max speed and max force must be positive")
	case s.Flight.TargetAttempts <= 0:
		return oerror.New("flight: target attempts must be positive, got %v", s.Flight.TargetAttempts)
	case s.Flight.AltitudeFloor > s.Flight.AltitudeCeiling:
		return oerror.New("flight: altitude band is inverted (%v > %v)", s.Flight.AltitudeFloor, s.Flight.AltitudeCeiling)
	case s.Mount.BandLow >= s.Mount.BandHigh:
		return oerror.New("mount: height band is inverted (%v >= %v)", s.Mount.BandLow, s.Mount.BandHigh)
	}
	return nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %w", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %w", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Values missing from the file keep their defaults. The loaded settings are validated.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading settings: %w", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// LoadOrCreate loads the settings file at the path passed, writing the defaults there first if it
// does not exist yet.
func LoadOrCreate(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveDefault(path); err != nil {
			return Settings{}, err
		}
	}
	return Load(path)
}
