package breathing

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	sampleRate  = beep.SampleRate(44100)
	chimeLength = 180 * time.Millisecond
)

// Chimer plays a cue when the phase changes.
type Chimer interface {
	Chime(p Phase) error
}

// chimeFreq rises for the inhale and falls for the exhale.
var chimeFreq = map[Phase]float64{
	Inhale: 523.25,
	Hold:   659.25,
	Exhale: 392.00,
}

// ToneChimer plays a short generated sine tone through the speaker.
type ToneChimer struct {
	initErr error
	once    sync.Once
	ready   bool
}

func (c *ToneChimer) init() error {
	c.once.Do(func() {
		bufferSize := 10

		c.initErr = speaker.Init(
			sampleRate,
			sampleRate.N(time.Duration(int(time.Second)/bufferSize)),
		)
		c.ready = c.initErr == nil
	})

	return c.initErr
}

// Chime plays the tone for p without waiting for it to finish.
func (c *ToneChimer) Chime(p Phase) error {
	if err := c.init(); err != nil {
		return err
	}

	tone, err := generators.SineTone(sampleRate, chimeFreq[p])
	if err != nil {
		return err
	}

	speaker.Clear()
	speaker.Play(beep.Take(sampleRate.N(chimeLength), tone))

	return nil
}

// Close releases the audio device.
func (c *ToneChimer) Close() {
	if c.ready {
		speaker.Clear()
		speaker.Close()
	}
}
