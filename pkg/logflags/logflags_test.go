package logflags

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestMakeLogger_usingLoggerFactory(t *testing.T) {
	if loggerFactory != nil {
		t.Fatalf("expected loggerFactory to be nil; but was <%v>", loggerFactory)
	}
	defer func() {
		loggerFactory = nil
	}()
	if logOut != nil {
		t.Fatalf("expected logOut to be nil; but was <%v>", logOut)
	}
	logOut = &bufferWriter{}
	defer func() {
		logOut = nil
	}()

	expectedLogger := &logrusLogger{}
	SetLoggerFactory(func(level logrus.Level, fields Fields, out io.Writer) Logger {
		if level != logrus.TraceLevel {
			t.Fatalf("expected level to be <%v>; but was <%v>", logrus.TraceLevel, level)
		}
		if len(fields) != 1 || fields["foo"] != "bar" {
			t.Fatalf("expected fields to be {'foo':'bar'}; but was <%v>", fields)
		}
		if out != logOut {
			t.Fatalf("expected out to be <%v>; but was <%v>", logOut, out)
		}
		return expectedLogger
	})

	actual := makeLogger(logrus.TraceLevel, Fields{"foo": "bar"})
	if actual != expectedLogger {
		t.Fatalf("expected actual to <%v>; but was <%v>", expectedLogger, actual)
	}
}

func TestMakeFlaggableLogger_withFlagFalse(t *testing.T) {
	actual := makeFlaggableLogger(false, Fields{"foo": "bar"})
	actualEntry, expectedType := actual.(*logrusLogger)
	if !expectedType {
		t.Fatalf("expected actual to be of type <%v>; but was <%v>", reflect.TypeOf((*logrusLogger)(nil)), reflect.TypeOf(actual))
	}
	if actualEntry.Entry.Logger.Level != logrus.ErrorLevel {
		t.Fatalf("expected level to be <%v>; but was <%v>", logrus.ErrorLevel, actualEntry.Logger.Level)
	}
	if len(actualEntry.Entry.Data) != 1 || actualEntry.Data["foo"] != "bar" {
		t.Fatalf("expected actualEntry.Entry.Data to be {'foo':'bar'}; but was <%v>", actualEntry.Data)
	}
}

func TestMakeFlaggableLogger_withFlagTrue(t *testing.T) {
	actual := makeFlaggableLogger(true, Fields{"foo": "bar"})
	actualEntry, expectedType := actual.(*logrusLogger)
	if !expectedType {
		t.Fatalf("expected actual to be of type <%v>; but was <%v>", reflect.TypeOf((*logrusLogger)(nil)), reflect.TypeOf(actual))
	}
	if actualEntry.Entry.Logger.Level != logrus.DebugLevel {
		t.Fatalf("expected level to be <%v>; but was <%v>", logrus.DebugLevel, actualEntry.Logger.Level)
	}
}

func TestMakeLogger_usingDefaultBehavior(t *testing.T) {
	logOut = &bufferWriter{}
	defer func() {
		logOut = nil
	}()

	actual := makeLogger(logrus.TraceLevel, Fields{"foo": "bar"})

	actualEntry, expectedType := actual.(*logrusLogger)
	if !expectedType {
		t.Fatalf("expected actual to be of type <%v>; but was <%v>", reflect.TypeOf((*logrusLogger)(nil)), reflect.TypeOf(actual))
	}
	if actualEntry.Entry.Logger.Level != logrus.TraceLevel {
		t.Fatalf("expected level to be <%v>; but was <%v>", logrus.TraceLevel, actualEntry.Logger.Level)
	}
	if actualEntry.Entry.Logger.Out != logOut {
		t.Fatalf("expected out to be <%v>; but was <%v>", logOut, actualEntry.Logger.Out)
	}
	if actualEntry.Entry.Logger.Formatter != textFormatterInstance {
		t.Fatalf("expected formatter to be <%v>; but was <%v>", textFormatterInstance, actualEntry.Logger.Formatter)
	}
}

func TestSetup(t *testing.T) {
	testCases := []struct {
		log                   bool
		logstr                string
		err                   error
		layout, memmap, confg bool
	}{
		{false, "", nil, false, false, false},
		{false, "memmap", errLogstrWithoutLog, false, false, false},
		{true, "", nil, true, false, false},
		{true, "memmap,config", nil, false, true, true},
		{true, "layout,memmap,config", nil, true, true, true},
	}
	for _, tc := range testCases {
		reset()
		err := Setup(tc.log, tc.logstr, "")
		if err != tc.err {
			t.Errorf("Setup(%v, %q): expected error %v got %v", tc.log, tc.logstr, tc.err, err)
		}
		if Layout() != tc.layout || MemMap() != tc.memmap || Config() != tc.confg {
			t.Errorf("Setup(%v, %q): got layout=%v memmap=%v config=%v", tc.log, tc.logstr, Layout(), MemMap(), Config())
		}
	}
	reset()
}

func TestSetupLogDest(t *testing.T) {
	defer reset()
	dest := filepath.Join(t.TempDir(), "memlayout.log")
	if err := Setup(true, "layout", dest); err != nil {
		t.Fatal(err)
	}
	LayoutLogger().WithField("depth", 3).Debugf("hello")
	Close()

	buf, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	out := string(buf)
	if !strings.Contains(out, "debug layout hello depth=3") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestSetupLogOutputWithoutLog(t *testing.T) {
	defer reset()
	dest := filepath.Join(t.TempDir(), "memlayout.log")
	if err := Setup(false, "memmap", dest); err != errLogstrWithoutLog {
		t.Fatalf("expected %v, got %v", errLogstrWithoutLog, err)
	}
	if logOut != nil {
		t.Fatalf("log destination opened despite error: %v", logOut)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("log file should not be created, stat returned %v", err)
	}
}

func TestSetupReplacesPreviousFlags(t *testing.T) {
	defer reset()
	if err := Setup(true, "layout,memmap", ""); err != nil {
		t.Fatal(err)
	}
	if err := Setup(true, "config", ""); err != nil {
		t.Fatal(err)
	}
	if Layout() || MemMap() || !Config() {
		t.Fatalf("got layout=%v memmap=%v config=%v", Layout(), MemMap(), Config())
	}
	if err := Setup(false, "", ""); err != nil {
		t.Fatal(err)
	}
	if Layout() || MemMap() || Config() {
		t.Fatalf("flags still set after disabling logging")
	}
}

func TestTextFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "msg",
		Data:    logrus.Fields{"layer": "memmap", "b": 2, "a": 1},
	}
	out, err := textFormatterInstance.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	const tgt = "2020-01-02T03:04:05Z info memmap msg a=1 b=2\n"
	if string(out) != tgt {
		t.Fatalf("expected %q got %q", tgt, string(out))
	}
}

type bufferWriter struct {
	bytes.Buffer
}

func (bw bufferWriter) Close() error {
	return nil
}
