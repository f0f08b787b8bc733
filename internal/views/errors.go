package views

import "errors"

var ErrNotInStock = errors.New("product is not in stock")
