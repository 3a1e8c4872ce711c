package reconstruct

import "errors"

var ErrUnknownNode = errors.New("reconstruct: unknown node id")
var ErrNotALoopIR = errors.New("reconstruct: ref does not name a LoopIR node")
