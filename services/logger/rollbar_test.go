package logsvc

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/revisioncam/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)

	logger.Error("import failed", errors.New("boom"), core.Person{ID: "s1", Username: "camcam"}, core.Person{ID: "s2"})

	out := buf.String()
	assert.Contains(t, out, "TEST : import failed\n")
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "camcam")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), &core.Config{})
	logger.Enable(false)

	extra := map[string]interface{}{"file": "qcm.csv"}
	rbArgs, stdArgs := logger.prepare("msg", []interface{}{core.Person{ID: "s1"}, extra})
	assert.Equal(t, []interface{}{"msg", extra}, rbArgs)
	assert.Equal(t, []interface{}{extra}, stdArgs)
}

func TestRollbarLogger_sharedPerson(t *testing.T) {
	var apiBuf, storeBuf bytes.Buffer
	apiLogger := NewRollbarLogger(log.New(&apiBuf, "API : ", 0), &core.Config{})
	storeLogger := NewRollbarLogger(log.New(&storeBuf, "STORE : ", 0), &core.Config{})
	apiLogger.Enable(false)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			apiLogger.Error("request failed", core.Person{ID: fmt.Sprintf("s%d", i), Username: "camcam"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			storeLogger.Info("purged idle workspaces")
		}
	}()
	wg.Wait()

	assert.Equal(t, 50, bytes.Count(apiBuf.Bytes(), []byte("API : request failed\n")))
	assert.Equal(t, 50, bytes.Count(storeBuf.Bytes(), []byte("STORE : purged idle workspaces\n")))
}
