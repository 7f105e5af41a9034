package audio

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/chewxy/math32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Cue names a one-shot gameplay sound.
type Cue string

const (
	CueFuel  Cue = "fuel"
	CueReset Cue = "reset"
	CueGoal  Cue = "goal"
)

// CueFiles maps each cue to its file under <assetDir>/sounds.
var CueFiles = map[Cue]string{
	CueFuel:  "fuel.wav",
	CueReset: "reset.wav",
	CueGoal:  "goal.wav",
}

const (
	DefaultVolume      float32 = 0.8
	DefaultMaxDistance float32 = 60
)

// Listener is the ear of the mix: the active camera.
type Listener struct {
	Position rl.Vector3
	Forward  rl.Vector3
	Right    rl.Vector3
}

// NewListener normalizes forward and derives the right vector from up.
func NewListener(pos, forward, up rl.Vector3) Listener {
	l := Listener{Position: pos}

	if n := rl.Vector3Length(forward); n > 0.001 {
		l.Forward = rl.Vector3Scale(forward, 1/n)
	} else {
		l.Forward = rl.Vector3{Z: -1}
	}

	right := rl.Vector3CrossProduct(up, l.Forward)
	if n := rl.Vector3Length(right); n > 0.001 {
		l.Right = rl.Vector3Scale(right, 1/n)
	} else {
		l.Right = rl.Vector3{X: 1}
	}
	return l
}

// Spatialize returns the volume and stereo pan (0 = left, 0.5 = center,
// 1 = right along l.Right) of a sound at pos. Volume falls off linearly to
// zero at maxDistance.
func Spatialize(l Listener, pos rl.Vector3, volume, maxDistance float32) (float32, float32) {
	toSource := rl.Vector3Subtract(pos, l.Position)
	distance := rl.Vector3Length(toSource)
	if distance >= maxDistance {
		return 0, 0.5
	}
	volume *= 1 - distance/maxDistance
	if distance <= 0.001 {
		return volume, 0.5
	}

	direction := rl.Vector3Scale(toSource, 1/distance)
	pan := 0.5 + rl.Vector3DotProduct(direction, l.Right)*0.5
	pan = math32.Max(0, math32.Min(1, pan))

	// Sounds off to the side and behind are a little quieter
	if front := rl.Vector3DotProduct(direction, l.Forward); front < 0 {
		volume *= 0.7 + 0.3*math32.Abs(front)
	}
	return volume, pan
}

type cue struct {
	sound       rl.Sound
	volume      float32
	maxDistance float32
}

// Manager plays the cues
type Manager struct {
	mu       sync.Mutex
	listener Listener
	cues     map[Cue]*cue
}

var globalManager *Manager
var playModeEnabled bool // Cues only sound during test play

// Init opens the audio device and loads every cue found under assetDir.
// Missing files leave that cue silent.
func Init(assetDir string) {
	rl.InitAudioDevice()
	globalManager = &Manager{
		listener: NewListener(rl.Vector3{}, rl.Vector3{Z: -1}, rl.Vector3{Y: 1}),
		cues:     make(map[Cue]*cue),
	}
	if !rl.IsAudioDeviceReady() {
		log.Println("Audio: no audio device, cues disabled")
		return
	}

	for name, file := range CueFiles {
		path := filepath.Join(assetDir, "sounds", file)
		if _, err := os.Stat(path); err != nil {
			log.Printf("Audio: cue %s disabled: %v", name, err)
			continue
		}
		globalManager.cues[name] = &cue{
			sound:       rl.LoadSound(path),
			volume:      DefaultVolume,
			maxDistance: DefaultMaxDistance,
		}
	}
	log.Printf("Audio: %d cues loaded", len(globalManager.cues))
}

// SetPlayMode enables or disables playback. Disabling stops every cue.
func SetPlayMode(enabled bool) {
	playModeEnabled = enabled
	if globalManager == nil || enabled {
		return
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()

	for _, c := range globalManager.cues {
		if rl.IsSoundPlaying(c.sound) {
			rl.StopSound(c.sound)
		}
	}
}

// Close unloads the cues and shuts down the audio device
func Close() {
	if globalManager == nil {
		return
	}
	globalManager.mu.Lock()
	for _, c := range globalManager.cues {
		rl.UnloadSound(c.sound)
	}
	globalManager.cues = nil
	globalManager.mu.Unlock()
	rl.CloseAudioDevice()
	globalManager = nil
}

// SetListener updates the listener position and orientation
func SetListener(pos, forward, up rl.Vector3) {
	if globalManager == nil {
		return
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.listener = NewListener(pos, forward, up)
}

// PlayAt plays name as if it came from pos. Does nothing outside play mode.
func PlayAt(name Cue, pos rl.Vector3) {
	if globalManager == nil || !playModeEnabled {
		return
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()

	c, ok := globalManager.cues[name]
	if !ok {
		return
	}
	volume, pan := Spatialize(globalManager.listener, pos, c.volume, c.maxDistance)
	if volume <= 0 {
		return
	}
	rl.SetSoundVolume(c.sound, volume)
	rl.SetSoundPan(c.sound, pan)
	rl.PlaySound(c.sound)
}

// IsPlaying returns whether a cue is currently sounding
func IsPlaying(name Cue) bool {
	if globalManager == nil {
		return false
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()

	if c, ok := globalManager.cues[name]; ok {
		return rl.IsSoundPlaying(c.sound)
	}
	return false
}
