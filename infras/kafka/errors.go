package kafka

import "errors"

var ErrPublisherClosed = errors.New("kafka publisher is closed")
