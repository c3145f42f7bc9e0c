package game

import "errors"

var (
	// ErrOutOfBounds は盤面外の座標が渡されたときのエラーです
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrInvalidConfiguration は盤面サイズと地雷数の組み合わせが不正なときのエラーです
	ErrInvalidConfiguration = errors.New("invalid board configuration")
)
