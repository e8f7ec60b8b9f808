package common

import (
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const NA = "N/A"

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

func defaultNode() *snowflake.Node {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
	})
	return node
}

// UUIDint64 returns a process-unique snowflake identifier.
func UUIDint64() int64 {
	return defaultNode().Generate().Int64()
}

// UUIDString returns UUIDint64 in base 10.
func UUIDString() string {
	return strconv.FormatInt(UUIDint64(), 10)
}

// IDGenerator produces product identifiers.
type IDGenerator func() string

// NewIDGenerator returns a snowflake backed generator for the given node number (0-1023).
func NewIDGenerator(nodeID int64) (IDGenerator, error) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return func() string { return n.Generate().String() }, nil
}

// IfEmptyStr returns defval when src is blank.
func IfEmptyStr(src string, defval string) string {
	if strings.TrimSpace(src) == "" {
		return defval
	}
	return src
}
