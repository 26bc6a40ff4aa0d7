package account

import (
	"encoding/json"
	"time"
)
