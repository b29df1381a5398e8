package iocli

import "errors"

// ErrNotTerminal ввод не является терминалом, скрытый ввод невозможен
var ErrNotTerminal = errors.New("stdin is not a terminal")
