// Package monitoring turns a running simulation into a small web server so
// that the simulation state can be inspected and controlled from a browser.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"reflect"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/yokanlab/yokan/monitoring/web"
	"github.com/yokanlab/yokan/sim"
)

// Simulator is the part of the simulation kernel the monitor drives. The
// kernel's Simulator satisfies it directly.
type Simulator interface {
	sim.TimeTeller

	Run() error
	Pause()
	Continue()
	Stop()
	PendingEvents() int
	ExecutedEvents() uint64
	NextEventTime() (sim.VTime, bool)
}

// Monitor exposes a simulation over HTTP. It can pause, continue, and stop
// the simulation, report progress, and serialize registered objects for
// inspection.
type Monitor struct {
	simulator   Simulator
	objects     []sim.Object
	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowserOpening asks the monitor to open the monitoring page in the
// default browser when the server starts.
func (m *Monitor) WithBrowserOpening() *Monitor {
	m.openBrowser = true

	return m
}

// RegisterSimulator registers the simulator under monitoring.
func (m *Monitor) RegisterSimulator(s Simulator) {
	m.simulator = s
}

// RegisterObject registers an object whose state can be inspected through
// the monitoring page.
func (m *Monitor) RegisterObject(o sim.Object) {
	m.objects = append(m.objects, o)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server, on the configured port or
// a random free one.
func (m *Monitor) StartServer() {
	r := m.routes()

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.openBrowser {
		if openErr := browser.OpenURL(url); openErr != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", openErr)
		}
	}

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()
}

func (m *Monitor) routes() *mux.Router {
	r := mux.NewRouter()

	fServer := http.FileServer(web.GetAssets())
	r.HandleFunc("/api/pause", m.pauseSimulator)
	r.HandleFunc("/api/continue", m.continueSimulator)
	r.HandleFunc("/api/run", m.runSimulator)
	r.HandleFunc("/api/stop", m.stopSimulator)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/pending", m.queueStatus)
	r.HandleFunc("/api/objects", m.listObjects)
	r.HandleFunc("/api/object/{name}", m.listObjectDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/raw_field/{json}", m.rawFieldValue)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	// The pprof web pages live on the default mux.
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(fServer)

	return r
}

func (m *Monitor) pauseSimulator(w http.ResponseWriter, _ *http.Request) {
	m.simulator.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueSimulator(w http.ResponseWriter, _ *http.Request) {
	m.simulator.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) runSimulator(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		err := m.simulator.Run()
		if err != nil {
			panic(err)
		}
	}()
}

func (m *Monitor) stopSimulator(w http.ResponseWriter, _ *http.Request) {
	m.simulator.Stop()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.simulator.Now()
	fmt.Fprintf(w, "{\"now\":%d,\"seconds\":%.12f}",
		now.Picoseconds(), now.Seconds())
}

type queueRsp struct {
	PendingEvents  int    `json:"pending_events"`
	ExecutedEvents uint64 `json:"executed_events"`
	NextEventTime  int64  `json:"next_event_time"`
	HasNextEvent   bool   `json:"has_next_event"`
}

func (m *Monitor) queueStatus(w http.ResponseWriter, _ *http.Request) {
	next, hasNext := m.simulator.NextEventTime()

	rsp := queueRsp{
		PendingEvents:  m.simulator.PendingEvents(),
		ExecutedEvents: m.simulator.ExecutedEvents(),
		NextEventTime:  next.Picoseconds(),
		HasNextEvent:   hasNext,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listObjects(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, o := range m.objects {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", o.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listObjectDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	object := m.findObjectOr404(w, name)
	if object == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(object)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	ObjectName string `json:"object_name,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	object := m.findObjectOr404(w, req.ObjectName)
	if object == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(object)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

// rawFieldValue resolves a dotted field path by plain reflection and reports
// the value as a formatted string. It complements the structured field
// endpoint for fields the serializer cannot reach.
func (m *Monitor) rawFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	object := m.findObjectOr404(w, req.ObjectName)
	if object == nil {
		return
	}

	elem, err := m.walkFields(object, req.FieldName)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	fmt.Fprintf(w, "{\"value\":%q,\"kind\":%q}",
		fmt.Sprintf("%v", elem), elem.Kind().String())
}

type fieldFormatError struct {
}

func (e fieldFormatError) Error() string {
	return "fieldFormatError"
}

func (m *Monitor) walkFields(
	obj interface{},
	fields string,
) (reflect.Value, error) {
	elem := reflect.ValueOf(obj)

	fieldNames := strings.Split(fields, ".")

	for len(fieldNames) > 0 {
		switch elem.Kind() {
		case reflect.Ptr, reflect.Interface:
			elem = elem.Elem()
		case reflect.Struct:
			elem = elem.FieldByName(fieldNames[0])
			fieldNames = fieldNames[1:]
		case reflect.Slice:
			index, err := strconv.Atoi(fieldNames[0])
			if err != nil {
				return elem, fieldFormatError{}
			}

			if index < 0 || index >= elem.Len() {
				return elem, fieldFormatError{}
			}

			elem = elem.Index(index)
			fieldNames = fieldNames[1:]
		default:
			return elem, fieldFormatError{}
		}

		if !elem.IsValid() {
			return elem, fieldFormatError{}
		}
	}

	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}

	return elem, nil
}

func (m *Monitor) findObjectOr404(
	w http.ResponseWriter,
	name string,
) sim.Object {
	var object sim.Object
	for _, o := range m.objects {
		if o.Name() == name {
			object = o
		}
	}

	if object == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Object not found"))
		dieOnErr(err)
	}

	return object
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bytes, err := json.Marshal(m.progressBars)
	m.progressBarsLock.Unlock()
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

const defaultProfileSeconds = 30

func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	seconds := defaultProfileSeconds
	if secStr := r.URL.Query().Get("seconds"); secStr != "" {
		parsed, err := strconv.Atoi(secStr)
		if err != nil || parsed <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Invalid seconds: %s", secStr)
			return
		}

		seconds = parsed
	}

	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Duration(seconds) * time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	out, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(out)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
