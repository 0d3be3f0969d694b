// Package monitoring serves a running driver over HTTP so that its states
// can be inspected and stepped from outside the process.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/revstep/driver"
	"github.com/sarchlab/revstep/stepping"
)

// MetricsWriter writes metrics in Prometheus text format.
type MetricsWriter interface {
	WritePrometheus(w io.Writer)
}

// Monitor turns a driver into an HTTP server. All access to the driver and
// its states goes through the monitor's lock, so the driver must not be
// stepped elsewhere while the server runs.
type Monitor struct {
	lock    sync.Mutex
	driver  *driver.Driver
	metrics MetricsWriter

	portNumber int
	server     *http.Server
}

// NewMonitor creates a Monitor for d.
func NewMonitor(d *driver.Driver) *Monitor {
	return &Monitor{driver: d}
}

// WithPortNumber sets the port of the server. Zero picks a free port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	m.portNumber = portNumber
	return m
}

// RegisterMetrics makes w available under /metrics.
func (m *Monitor) RegisterMetrics(w MetricsWriter) {
	m.metrics = w
}

// Router returns the routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now).Methods(http.MethodGet)
	r.HandleFunc("/api/states", m.listStates).Methods(http.MethodGet)
	r.HandleFunc("/api/state/{name}", m.stateDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/state/{name}/fields", m.stateFields).
		Methods(http.MethodGet)
	r.HandleFunc("/api/forward", m.forward).Methods(http.MethodPost)
	r.HandleFunc("/api/backward", m.backward).Methods(http.MethodPost)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.HandleFunc("/metrics", m.writeMetrics).Methods(http.MethodGet)

	return r
}

// StartServer starts serving in the background and returns the URL of the
// server.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", errors.Wrap(err, "listen")
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring revstep with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "monitor stopped: %v\n", err)
		}
	}()

	return url, nil
}

// Shutdown stops the server.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

// StateView is the JSON form of a state.
type StateView struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	Time       int64  `json:"time"`
	Macrostate int64  `json:"macrostate"`
	Past       []int  `json:"past"`
	Future     []int  `json:"future"`
	Tape       string `json:"tape"`
}

func viewOf(name string, s *stepping.State) StateView {
	return StateView{
		Name:       name,
		ID:         s.ID(),
		Time:       s.Time(),
		Macrostate: s.Macrostate(),
		Past:       s.PastOutcomes(),
		Future:     s.FutureOutcomes(),
		Tape:       s.String(),
	}
}

func (m *Monitor) views() []StateView {
	names := m.driver.Names()
	views := make([]StateView, 0, len(names))

	for _, name := range names {
		views = append(views, viewOf(name, m.driver.State(name)))
	}

	return views
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	now := m.driver.Now()
	m.lock.Unlock()

	writeJSON(w, map[string]int64{"now": now})
}

func (m *Monitor) listStates(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	views := m.views()
	m.lock.Unlock()

	writeJSON(w, views)
}

func (m *Monitor) findStateOr404(
	w http.ResponseWriter,
	r *http.Request,
) (StateView, bool) {
	name := mux.Vars(r)["name"]

	m.lock.Lock()
	defer m.lock.Unlock()

	s := m.driver.State(name)
	if s == nil {
		http.Error(w, "state "+name+" not found", http.StatusNotFound)
		return StateView{}, false
	}

	return viewOf(name, s), true
}

func (m *Monitor) stateDetails(w http.ResponseWriter, r *http.Request) {
	view, found := m.findStateOr404(w, r)
	if !found {
		return
	}

	writeJSON(w, view)
}

func (m *Monitor) stateFields(w http.ResponseWriter, r *http.Request) {
	view, found := m.findStateOr404(w, r)
	if !found {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(view)
	serializer.SetMaxDepth(2)

	var buf bytes.Buffer
	if err := serializer.Serialize(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

// MaxStepsPerRequest bounds the steps a single forward or backward request
// may take, since the driver lock is held for the whole run.
const MaxStepsPerRequest = 10000

func stepCount(r *http.Request) (int, error) {
	s := r.URL.Query().Get("n")
	if s == "" {
		return 1, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > MaxStepsPerRequest {
		return 0, errors.Newf(
			"invalid step count %q, must be in [0, %d]", s, MaxStepsPerRequest)
	}

	return n, nil
}

func (m *Monitor) forward(w http.ResponseWriter, r *http.Request) {
	m.step(w, r, m.driver.Run)
}

func (m *Monitor) backward(w http.ResponseWriter, r *http.Request) {
	m.step(w, r, m.driver.Rewind)
}

func (m *Monitor) step(
	w http.ResponseWriter,
	r *http.Request,
	run func(n int),
) {
	n, err := stepCount(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.lock.Lock()
	run(n)
	views := m.views()
	m.lock.Unlock()

	writeJSON(w, views)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

// collectProfile samples the CPU for ?ms milliseconds, one second by
// default.
func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	duration := time.Second
	if s := r.URL.Query().Get("ms"); s != "" {
		ms, err := strconv.Atoi(s)
		if err != nil || ms <= 0 {
			http.Error(w, "invalid duration", http.StatusBadRequest)
			return
		}

		duration = time.Duration(ms) * time.Millisecond
	}

	buf := bytes.NewBuffer(nil)
	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(duration)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func (m *Monitor) writeMetrics(w http.ResponseWriter, _ *http.Request) {
	if m.metrics == nil {
		http.Error(w, "metrics are not enabled", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	m.lock.Lock()
	defer m.lock.Unlock()

	m.metrics.WritePrometheus(w)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(bytes)
}
