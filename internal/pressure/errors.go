package pressure

import "errors"

var errNoSensors = errors.New("no temperature sensors")
