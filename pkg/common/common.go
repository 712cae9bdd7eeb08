// Package common holds small helpers shared across packages.
package common

import (
	"os"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

func node() *snowflake.Node {
	idNodeOnce.Do(func() {
		var err error
		idNode, err = snowflake.NewNode(nodeNumber())
		if err != nil {
			zap.S().Errorf("snowflake node init error %s", err.Error())
			idNode, _ = snowflake.NewNode(1)
		}
	})
	return idNode
}

// nodeNumber derives the snowflake node from STOCKLEDGER_NODE_ID (0-1023).
func nodeNumber() int64 {
	v := strings.TrimSpace(os.Getenv("STOCKLEDGER_NODE_ID"))
	if v == "" {
		return 1
	}
	n, err := cast.ToInt64E(v)
	if err != nil || n < 0 || n > 1023 {
		return 1
	}
	return n
}

// UUIDint64 returns a time-ordered unique int64 id.
func UUIDint64() int64 {
	return node().Generate().Int64()
}

func IfEmptyStr(src, defval string) string {
	if strings.TrimSpace(src) == "" {
		return defval
	}
	return src
}

func InSlice(v string, sl []string) bool {
	for _, vv := range sl {
		if vv == v {
			return true
		}
	}
	return false
}
