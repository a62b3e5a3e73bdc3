// Package bluepill binds the controller to a STM32F103 "blue pill"
// board under TinyGo: motor outputs on TIM2, the link on UART1, the
// sentinel cell in the backup data registers and the system memory
// bootloader.
//
// Pinout:
//
//	PA0  TIM2_CH1  motor 0 enable (PWM)
//	PA1  TIM2_CH2  motor 1 enable (PWM)
//	PB12 PB13      motor 0 IN1 IN2
//	PB14 PB15      motor 1 IN1 IN2
//	PA9  PA10      UART1 TX RX
//	PC13           status LED (active low)
package bluepill
