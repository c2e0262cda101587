// Command vizserver serves a browser visualization of the toolkit:
// maps, A* paths and goal fields are computed server-side and
// streamed to the page as JSON snapshots over a websocket.
package main

import (
	"flag"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/quellen/gridpath/pathfind"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096

	defaultWidth  = 48
	defaultHeight = 28
)

var log = logrus.New()

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// command is what the page sends: an action plus whichever fields the
// action needs.
type command struct {
	Action  string  `json:"action"` // init, toggle, start, goal, mode
	X       int     `json:"x"`
	Y       int     `json:"y"`
	W       int     `json:"w"`
	H       int     `json:"h"`
	Density float64 `json:"density"`
	Mode    string  `json:"mode"` // cardinal or octile
}

// snapshot is the full board state the page redraws from.
type snapshot struct {
	W      int          `json:"w"`
	H      int          `json:"h"`
	Walls  [][2]int     `json:"walls"`
	Start  [2]int       `json:"start"`
	Goal   [2]int       `json:"goal"`
	Path   [][2]int     `json:"path,omitempty"`
	Field  [][3]float64 `json:"field,omitempty"` // x, y, value triplets
	Found  bool         `json:"found"`
	TookUS int64        `json:"took_us"`
}

// session owns one connection's board. All access happens on the
// connection's read loop, so no locking.
type session struct {
	conn    *websocket.Conn
	pathmap *pathfind.PathMap2d
	pf      *pathfind.Pathfinder
	field   *pathfind.DijkstraMap
	start   pathfind.Point
	goal    pathfind.Point
	rng     *rand.Rand
}

func newSession(conn *websocket.Conn) *session {
	s := &session{
		conn: conn,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.reset(defaultWidth, defaultHeight, 0.25)
	return s
}

// reset builds a fresh random board. Walls come from clustered random
// walks so the maps have corridors and rooms rather than noise.
func (s *session) reset(w, h int, density float64) {
	if w < 8 || w > 256 || h < 8 || h > 256 {
		w, h = defaultWidth, defaultHeight
	}
	m := pathfind.NewPathMap(w, h)
	m.SetAdjacency(pathfind.Cardinal)

	clusters, steps := 8, w*h/5
	for c := 0; c < clusters; c++ {
		p := pathfind.Pt(s.rng.Intn(w), s.rng.Intn(h))
		for i := 0; i < steps; i++ {
			if s.rng.Float64() < density {
				m.AddObstacle(p)
			}
			d := compass4[s.rng.Intn(4)]
			if next := p.Add(d); m.InBounds(next) {
				p = next
			}
		}
	}

	s.start = s.openCell(m)
	s.goal = s.openCell(m)
	m.RemoveObstacle(s.start)
	m.RemoveObstacle(s.goal)

	s.pathmap = m
	s.pf = pathfind.NewPathfinderCapacity(w * h)
	s.field = pathfind.NewDijkstraMap(w, h)
}

var compass4 = [4]pathfind.Point{{X: 0, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: 0}}

func (s *session) openCell(m *pathfind.PathMap2d) pathfind.Point {
	for i := 0; i < 1000; i++ {
		p := pathfind.Pt(s.rng.Intn(m.Width()), s.rng.Intn(m.Height()))
		if !m.IsObstacle(p) {
			return p
		}
	}
	return pathfind.Pt(0, 0)
}

func (s *session) handle(cmd command) {
	switch cmd.Action {
	case "init":
		d := cmd.Density
		if d <= 0 || d > 1 {
			d = 0.25
		}
		s.reset(cmd.W, cmd.H, d)
	case "toggle":
		p := pathfind.Pt(cmd.X, cmd.Y)
		if p != s.start && p != s.goal {
			s.pathmap.ToggleObstacle(p)
		}
	case "start":
		if p := pathfind.Pt(cmd.X, cmd.Y); !s.pathmap.IsObstacle(p) {
			s.start = p
		}
	case "goal":
		if p := pathfind.Pt(cmd.X, cmd.Y); !s.pathmap.IsObstacle(p) {
			s.goal = p
		}
	case "mode":
		if cmd.Mode == "octile" {
			s.pathmap.SetAdjacency(pathfind.Octile)
		} else {
			s.pathmap.SetAdjacency(pathfind.Cardinal)
		}
	default:
		log.WithField("action", cmd.Action).Warn("unknown action")
		return
	}
	s.push()
}

// push recomputes the path and the goal field and writes one snapshot.
func (s *session) push() {
	began := time.Now()

	path := s.pf.AStar(s.pathmap, s.start, s.goal)

	s.field.ClearAll()
	s.field.AddGoal(s.goal, 0.0)
	s.field.Recalculate(s.pathmap)

	snap := snapshot{
		W:     s.pathmap.Width(),
		H:     s.pathmap.Height(),
		Start: [2]int{s.start.X, s.start.Y},
		Goal:  [2]int{s.goal.X, s.goal.Y},
		Found: path != nil,
	}
	for y := 0; y < s.pathmap.Height(); y++ {
		for x := 0; x < s.pathmap.Width(); x++ {
			if s.pathmap.IsObstacle(pathfind.Pt(x, y)) {
				snap.Walls = append(snap.Walls, [2]int{x, y})
			}
		}
	}
	for _, p := range path {
		snap.Path = append(snap.Path, [2]int{p.X, p.Y})
	}
	s.field.IterXY(func(p pathfind.Point, v float64) {
		snap.Field = append(snap.Field, [3]float64{float64(p.X), float64(p.Y), v})
	})
	snap.TookUS = time.Since(began).Microseconds()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.WithError(err).Warn("failed to set write deadline")
	}
	if err := s.conn.WriteJSON(snap); err != nil {
		log.WithError(err).Warn("snapshot write failed")
	}
}

func (s *session) run() {
	defer func() {
		if err := s.conn.Close(); err != nil {
			log.WithError(err).Warn("failed to close websocket connection")
		}
		log.WithField("remote", s.conn.RemoteAddr()).Info("client disconnected")
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.push()

	for {
		var cmd command
		if err := s.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Error("websocket read failed")
			}
			return
		}
		s.handle(cmd)
	}
}

func handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("upgrade failed")
		return
	}
	log.WithField("remote", conn.RemoteAddr()).Info("client connected")
	go newSession(conn).run()
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(indexHTML)); err != nil {
		log.WithError(err).Warn("index write failed")
	}
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	mux := http.NewServeMux()
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/ws", handleWS)

	log.WithField("addr", *addr).Info("gridpath vizserver running")
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// Minimal single-page viewer. Left click toggles walls, shift-click
// moves the start, ctrl-click moves the goal.
const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>gridpath viz</title>
<style>
 body { background:#14141e; color:#ddd; font:14px monospace; margin:16px }
 canvas { border:1px solid #444; image-rendering:pixelated }
 button { margin-right:8px }
</style></head>
<body>
<p>
 <button onclick="send({action:'init'})">new map</button>
 <button onclick="send({action:'mode',mode:mode=mode==='cardinal'?'octile':'cardinal'})">toggle adjacency</button>
 click: wall &middot; shift-click: start &middot; ctrl-click: goal
 <span id="stat"></span>
</p>
<canvas id="cv"></canvas>
<script>
const CELL = 18;
let mode = 'cardinal', snap = null;
const cv = document.getElementById('cv'), cx = cv.getContext('2d');
const ws = new WebSocket('ws://' + location.host + '/ws');
function send(o) { if (ws.readyState === 1) ws.send(JSON.stringify(o)); }
ws.onmessage = ev => { snap = JSON.parse(ev.data); draw(); };
cv.onmousedown = ev => {
  if (!snap) return;
  const r = cv.getBoundingClientRect();
  const x = Math.floor((ev.clientX - r.left) / CELL);
  const y = snap.h - 1 - Math.floor((ev.clientY - r.top) / CELL);
  send({action: ev.shiftKey ? 'start' : ev.ctrlKey ? 'goal' : 'toggle', x, y});
};
function cell(x, y, c) {
  cx.fillStyle = c;
  cx.fillRect(x * CELL + 1, (snap.h - 1 - y) * CELL + 1, CELL - 2, CELL - 2);
}
function draw() {
  cv.width = snap.w * CELL; cv.height = snap.h * CELL;
  cx.fillStyle = '#1c1c28'; cx.fillRect(0, 0, cv.width, cv.height);
  for (const [x, y, v] of snap.field || []) {
    const t = Math.min(Math.abs(v) / 60, 1);
    cell(x, y, 'rgb(' + (40 + 180 * (1 - t)) + ',30,' + (40 + 180 * t) + ')');
  }
  for (const [x, y] of snap.walls || []) cell(x, y, '#666');
  for (const [x, y] of snap.path || []) cell(x, y, '#fad450');
  cell(snap.start[0], snap.start[1], '#5aa0ff');
  cell(snap.goal[0], snap.goal[1], '#46c85a');
  document.getElementById('stat').textContent =
    (snap.found ? ' path found' : ' no path') + ' (' + snap.took_us + 'us)';
}
</script>
</body>
</html>
`
