//go:build tinygo && stm32f103

package bluepill

import (
	"device/arm"
	"device/stm32"
	"machine"
	"runtime/volatile"
	"unsafe"

	"github.com/robotalks/mcv4b/pkg/l0/boot"
	"github.com/robotalks/mcv4b/pkg/l0/comm"
	"github.com/robotalks/mcv4b/pkg/l0/firmware"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

// BaudRate of the link.
const BaudRate = 115200

// pwmPeriod is 20kHz, above audible range.
const pwmPeriod = 1e9 / 20000

type output struct {
	pwm      uint8
	in1, in2 machine.Pin
	enabled  bool
	dir      motor.Direction
	speed    uint8
}

// Motors drives the two H-bridge outputs.
type Motors struct {
	tim  *machine.TIM
	top  uint32
	outs [motor.Channels]output
}

// NewMotors configures the timer and direction pins, outputs start
// disabled.
func NewMotors() (*Motors, error) {
	m := &Motors{
		tim: &machine.TIM2,
		outs: [motor.Channels]output{
			{in1: machine.PB12, in2: machine.PB13},
			{in1: machine.PB14, in2: machine.PB15},
		},
	}
	if err := m.tim.Configure(machine.PWMConfig{Period: pwmPeriod}); err != nil {
		return nil, err
	}
	m.top = m.tim.Top()
	for n, pin := range []machine.Pin{machine.PA0, machine.PA1} {
		ch, err := m.tim.Channel(pin)
		if err != nil {
			return nil, err
		}
		o := &m.outs[n]
		o.pwm = ch
		o.in1.Configure(machine.PinConfig{Mode: machine.PinOutput})
		o.in2.Configure(machine.PinConfig{Mode: machine.PinOutput})
		m.apply(o)
	}
	return m, nil
}

// Enable implements motor.Driver.
func (m *Motors) Enable(ch motor.Channel) {
	o := &m.outs[ch]
	o.enabled = true
	m.apply(o)
}

// Disable implements motor.Driver.
func (m *Motors) Disable(ch motor.Channel) {
	o := &m.outs[ch]
	o.enabled = false
	m.apply(o)
}

// SetDirection implements motor.Driver.
func (m *Motors) SetDirection(ch motor.Channel, dir motor.Direction) {
	o := &m.outs[ch]
	o.dir = dir
	m.apply(o)
}

// SetSpeed implements motor.Driver.
func (m *Motors) SetSpeed(ch motor.Channel, speed uint8) {
	o := &m.outs[ch]
	o.speed = speed
	m.apply(o)
}

func (m *Motors) apply(o *output) {
	if !o.enabled {
		o.in1.Low()
		o.in2.Low()
		m.tim.Set(o.pwm, 0)
		return
	}
	o.in1.Set(o.dir == motor.Forward)
	o.in2.Set(o.dir == motor.Reverse)
	m.tim.Set(o.pwm, m.top*uint32(o.speed)/128)
}

// NewCell enables write access to the backup domain and returns the
// sentinel kept in backup data registers DR1 (low) and DR2 (high).
// They survive a system reset, are cleared on power loss and lie
// outside the RAM owned by the runtime.
func NewCell() boot.RegisterPairCell {
	stm32.RCC.APB1ENR.SetBits(stm32.RCC_APB1ENR_PWREN | stm32.RCC_APB1ENR_BKPEN)
	stm32.PWR.CR.SetBits(stm32.PWR_CR_DBP)
	return boot.RegisterPairCell{Lo: &stm32.BKP.DR1, Hi: &stm32.BKP.DR2}
}

// SystemMemory is the vector table of the built-in bootloader.
type SystemMemory struct{}

// ImageHeader implements boot.ImageSource.
func (SystemMemory) ImageHeader() (boot.ImageHeader, error) {
	words := (*[2]volatile.Register32)(unsafe.Pointer(boot.SystemMemoryBase))
	return boot.ImageHeader{
		StackPointer: words[0].Get(),
		Entry:        words[1].Get(),
	}, nil
}

// ChainLoad loads the stack pointer and jumps to the entry. It does
// not return.
func ChainLoad(hdr boot.ImageHeader) error {
	arm.AsmFull(`
		msr msp, {sp}
		bx {pc}
	`, map[string]interface{}{
		"sp": hdr.StackPointer,
		"pc": hdr.Entry,
	})
	return nil
}

// Reset resets the chip once pending writes are done.
func Reset() {
	arm.Asm("dsb")
	arm.SystemReset()
}

// NewFirmware assembles the firmware on the board peripherals. The
// peripherals are brought up only after the boot-mode check.
func NewFirmware() *firmware.Firmware {
	uart := machine.UART1
	fw := &firmware.Firmware{
		Link:     &comm.UARTStream{UART: uart},
		Cell:     NewCell(),
		Resetter: boot.ResetFunc(Reset),
		Loader:   boot.ChainLoadFunc(ChainLoad),
		Image:    SystemMemory{},
	}
	fw.Init = func() error {
		led := machine.LED
		led.Configure(machine.PinConfig{Mode: machine.PinOutput})
		led.Low()
		if err := uart.Configure(machine.UARTConfig{BaudRate: BaudRate}); err != nil {
			return err
		}
		motors, err := NewMotors()
		if err != nil {
			return err
		}
		fw.Motors = motors
		return nil
	}
	return fw
}
