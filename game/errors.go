package game

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction は引数から盤面を作れないときのエラー
	ErrConstruction = errors.New("invalid grid")

	ErrInvalidColumns    = fmt.Errorf("%w: column count must be a positive integer", ErrConstruction)
	ErrInvalidCellCount  = fmt.Errorf("%w: cell count must be dividable by column count", ErrConstruction)
	ErrInvalidDimensions = fmt.Errorf("%w: rows and columns must be positive", ErrConstruction)
	ErrTooManyMines      = fmt.Errorf("%w: mine count out of range", ErrConstruction)

	// ErrInvalidTransition はマスにその操作ができないときのエラー
	ErrInvalidTransition = errors.New("invalid cell transition")

	ErrCellDug     = fmt.Errorf("%w: cell already dug", ErrInvalidTransition)
	ErrCellFlagged = fmt.Errorf("%w: cell is flagged", ErrInvalidTransition)

	// ErrOutOfRange は盤面外の index を操作したときのエラー
	ErrOutOfRange = errors.New("cell index out of range")
)
