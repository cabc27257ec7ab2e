package pdftable

import (
	"github.com/gompdf/pdftable/internal/surface"
	"github.com/gompdf/pdftable/pkg/api"
)

type Document = api.Document
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation
type TableOptions = api.TableOptions
type TableOption = api.TableOption
type BandOptions = api.BandOptions
type TextBand = api.TextBand

type Surface = api.Surface
type TextStyle = api.TextStyle
type Color = api.Color
type Align = api.Align
type Column = api.Column
type Row = api.Row
type Height = api.Height
type Frame = api.Frame
type Renderer = api.Renderer
type RendererFunc = api.RendererFunc
type PageTemplate = api.PageTemplate
type Recorder = surface.Recorder

type ConfigurationError = api.ConfigurationError
type DuplicateKeyError = api.DuplicateKeyError

func New(s Surface, opts ...Option) *Document     { return api.New(s, opts...) }
func NewPDF(opts ...Option) (*Document, error)    { return api.NewPDF(opts...) }
func DefaultOptions() Options                     { return api.DefaultOptions() }
func DefaultTableOptions() TableOptions           { return api.DefaultTableOptions() }
func ParseHeight(s string) (Height, error)        { return api.ParseHeight(s) }
func ParseColor(s string) (Color, error)          { return surface.ParseColor(s) }
func NewRecorder(width, height float64) *Recorder { return surface.NewRecorder(width, height) }

var (
	ErrConfiguration = api.ErrConfiguration
	ErrDuplicateKey  = api.ErrDuplicateKey

	Points         = api.Points
	Percent        = api.Percent
	MustParseColor = surface.MustParseColor
	Black          = surface.Black
	White          = surface.White

	WithPageSize        = api.WithPageSize
	WithMargins         = api.WithMargins
	WithMargin          = api.WithMargin
	WithPageOrientation = api.WithPageOrientation
	WithBufferPages     = api.WithBufferPages
	WithLineHeight      = api.WithLineHeight
	WithDebug           = api.WithDebug
	WithLogger          = api.WithLogger
	WithTitle           = api.WithTitle
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal

	WithTableOptions  = api.WithTableOptions
	WithFillBody      = api.WithFillBody
	WithTableMargins  = api.WithTableMargins
	WithBorder        = api.WithBorder
	WithoutBorder     = api.WithoutBorder
	WithStriped       = api.WithStriped
	WithHeadStyle     = api.WithHeadStyle
	WithHeadAlign     = api.WithHeadAlign
	WithHeadHeight    = api.WithHeadHeight
	WithCellsStyle    = api.WithCellsStyle
	WithCellsAlign    = api.WithCellsAlign
	WithCellsPadding  = api.WithCellsPadding
	WithCellsMaxWidth = api.WithCellsMaxWidth
)

const (
	AlignLeft   = surface.AlignLeft
	AlignCenter = surface.AlignCenter
	AlignRight  = surface.AlignRight

	PageSizeA0Width  = api.PageSizeA0Width
	PageSizeA0Height = api.PageSizeA0Height
	PageSizeA1Width  = api.PageSizeA1Width
	PageSizeA1Height = api.PageSizeA1Height
	PageSizeA2Width  = api.PageSizeA2Width
	PageSizeA2Height = api.PageSizeA2Height
	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height
	PageSizeA6Width  = api.PageSizeA6Width
	PageSizeA6Height = api.PageSizeA6Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)
