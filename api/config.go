package api

import (
	"github.com/mcuadros/go-defaults"

	"github.com/boothhq/fleet/internal/validate"
	"github.com/boothhq/fleet/uid"
)

// ConfigVersionDefault labels the synthesized default document served to
// machines that have no saved configuration.
const ConfigVersionDefault = "default"

// KioskConfig is the full configuration document distributed to a kiosk.
// Every section is validated against bounded ranges and closed enumerations
// before a version is saved; devices never receive a partially valid
// document.
type KioskConfig struct {
	Processing ProcessingConfig `json:"processing"`
	Camera     CameraConfig     `json:"camera"`
	Display    DisplayConfig    `json:"display"`
	Payment    PaymentConfig    `json:"payment"`
	Printer    PrinterConfig    `json:"printer"`
	DemoMode   bool             `json:"demoMode" default:"false"`
	Debug      DebugConfig      `json:"debug"`
}

func (c KioskConfig) ValidationRules() []validate.ValidationRule {
	// sections carry their own rules; the document itself has none
	return nil
}

type ProcessingConfig struct {
	Mode            string `json:"mode" default:"standard"`
	Quality         int    `json:"quality" default:"85"`
	FaceEnhancement bool   `json:"faceEnhancement" default:"true"`
	Stitching       bool   `json:"stitching" default:"true"`
}

func (c ProcessingConfig) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("mode", c.Mode),
		validate.Enum("mode", c.Mode, []string{"standard", "enhanced", "demo"}),
		validate.Required("quality", c.Quality),
		validate.IntRule{Name: "quality", Value: c.Quality, Min: validate.Int(1), Max: validate.Int(100)},
	}
}

type CameraConfig struct {
	Resolution       string `json:"resolution" default:"1080p"`
	FPS              int    `json:"fps" default:"30"`
	CountdownSeconds int    `json:"countdownSeconds" default:"3"`
	Flash            bool   `json:"flash" default:"true"`
}

func (c CameraConfig) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("resolution", c.Resolution),
		validate.Enum("resolution", c.Resolution, []string{"1080p", "4k"}),
		validate.Required("fps", c.FPS),
		validate.IntRule{Name: "fps", Value: c.FPS, Min: validate.Int(15), Max: validate.Int(60)},
		validate.IntRule{Name: "countdownSeconds", Value: c.CountdownSeconds, Min: validate.Int(0), Max: validate.Int(10)},
	}
}

type DisplayConfig struct {
	Width       int    `json:"width" default:"1920"`
	Height      int    `json:"height" default:"1080"`
	Orientation string `json:"orientation" default:"landscape"`
	Brightness  int    `json:"brightness" default:"80"`
}

func (c DisplayConfig) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("width", c.Width),
		validate.IntRule{Name: "width", Value: c.Width, Min: validate.Int(480), Max: validate.Int(7680)},
		validate.Required("height", c.Height),
		validate.IntRule{Name: "height", Value: c.Height, Min: validate.Int(480), Max: validate.Int(7680)},
		validate.Required("orientation", c.Orientation),
		validate.Enum("orientation", c.Orientation, []string{"landscape", "portrait"}),
		validate.IntRule{Name: "brightness", Value: c.Brightness, Min: validate.Int(0), Max: validate.Int(100)},
	}
}

type PaymentConfig struct {
	Enabled bool `json:"enabled" default:"false"`
	// Currency is an ISO 4217 code from the closed set of supported
	// currencies.
	Currency string `json:"currency" default:"USD"`
	// PricePerSession is in the currency's minor unit.
	PricePerSession int            `json:"pricePerSession" default:"500"`
	Terminal        TerminalConfig `json:"terminal"`
}

func (c PaymentConfig) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("currency", c.Currency),
		validate.Enum("currency", c.Currency, []string{"USD", "EUR", "GBP", "AUD", "CAD", "JPY"}),
		validate.IntRule{Name: "pricePerSession", Value: c.PricePerSession, Min: validate.Int(0), Max: validate.Int(100000)},
	}
}

// TerminalConfig holds the payment terminal hardware parameters.
type TerminalConfig struct {
	Port     string `json:"port" default:"/dev/ttyUSB0"`
	BaudRate int    `json:"baudRate" default:"115200"`
	Protocol string `json:"protocol" default:"ecr"`
}

func (c TerminalConfig) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("port", c.Port),
		validate.Required("baudRate", c.BaudRate),
		validate.Enum("protocol", c.Protocol, []string{"ecr", "zvt", "opi"}),
		validate.IntEnum("baudRate", c.BaudRate, []int{9600, 19200, 38400, 57600, 115200}),
	}
}

type PrinterConfig struct {
	Enabled   bool   `json:"enabled" default:"true"`
	PaperSize string `json:"paperSize" default:"4x6"`
	CopiesMax int    `json:"copiesMax" default:"2"`
}

func (c PrinterConfig) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("paperSize", c.PaperSize),
		validate.Enum("paperSize", c.PaperSize, []string{"4x6", "5x7", "6x8"}),
		validate.Required("copiesMax", c.CopiesMax),
		validate.IntRule{Name: "copiesMax", Value: c.CopiesMax, Min: validate.Int(1), Max: validate.Int(10)},
	}
}

type DebugConfig struct {
	LogLevel      string `json:"logLevel" default:"info"`
	RemoteLogging bool   `json:"remoteLogging" default:"false"`
}

func (c DebugConfig) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("logLevel", c.LogLevel),
		validate.Enum("logLevel", c.LogLevel, []string{"trace", "debug", "info", "warn", "error"}),
	}
}

// DefaultKioskConfig returns the system default document synthesized for
// machines that have no saved configuration.
func DefaultKioskConfig() KioskConfig {
	var cfg KioskConfig
	defaults.SetDefaults(&cfg)
	return cfg
}

// MachineConfig is one row of a machine's configuration history.
type MachineConfig struct {
	ID             uid.ID      `json:"id"`
	MachineID      uid.ID      `json:"machineId"`
	Version        string      `json:"version"`
	Config         KioskConfig `json:"config"`
	IsActive       bool        `json:"isActive"`
	RolledBackFrom string      `json:"rolledBackFrom,omitempty"`
	Created        Time        `json:"created"`
	CreatedBy      uid.ID      `json:"createdBy"`
}

// GetMachineConfigRequest is the device-facing differential fetch. When
// CurrentVersion matches the active version the response omits the document
// body.
type GetMachineConfigRequest struct {
	Resource
	CurrentVersion string `form:"currentVersion" json:"-"`
}

type GetMachineConfigResponse struct {
	Version   string       `json:"version"`
	Changed   bool         `json:"changed"`
	Config    *KioskConfig `json:"config,omitempty"`
	UpdatedAt *Time        `json:"updatedAt,omitempty"`
}

type SaveConfigRequest struct {
	Resource
	Config KioskConfig `json:"config"`
}

func (r SaveConfigRequest) ValidationRules() []validate.ValidationRule {
	// the document's sections validate themselves
	return r.Resource.ValidationRules()
}

type RollbackConfigRequest struct {
	Resource
	TargetVersion string `json:"targetVersion"`
}

func (r RollbackConfigRequest) ValidationRules() []validate.ValidationRule {
	return append(r.Resource.ValidationRules(),
		validate.Required("targetVersion", r.TargetVersion),
	)
}

type ListConfigHistoryRequest struct {
	Resource
}

type ListConfigHistoryResponse struct {
	Configs []MachineConfig `json:"configs"`
}
