package memory

import (
	"testing"

	"github.com/Alarion239/studentrecords/pkg/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(*testing.T) storetest.Backend { return New() })
}
