package engine

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"argus-worker-go/internal/models"
)

// DNNEngine runs a YOLO-family ONNX model in-process through the OpenCV
// DNN module. The network handle is not re-entrant, so Infer serializes
// callers with a mutex (the session loop is the only caller in practice).
type DNNEngine struct {
	mu         sync.Mutex
	net        gocv.Net
	classNames []string
	inputSize  int
	nmsIOU     float32
	closed     bool
}

// LoadDNN loads the ONNX model and its class-names file. Any failure is
// wrapped as ErrModelLoad and is fatal to session startup.
func LoadDNN(modelPath, namesPath string, inputSize int) (*DNNEngine, error) {
	names, err := readClassNames(namesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}

	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, modelPath, err)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("%w: %s is not a valid ONNX network", ErrModelLoad, modelPath)
	}

	log.Info().
		Str("model", modelPath).
		Int("class_count", len(names)).
		Int("input_size", inputSize).
		Msg("Detection model loaded")

	return &DNNEngine{
		net:        net,
		classNames: names,
		inputSize:  inputSize,
		nmsIOU:     0.45,
	}, nil
}

// ClassNames returns the model's ordered class list; the slice index is
// the class id.
func (e *DNNEngine) ClassNames() []string {
	return append([]string(nil), e.classNames...)
}

// Infer runs one forward pass and decodes detections above minConfidence
// for the classes in classFilter (nil = all classes).
func (e *DNNEngine) Infer(frame *models.Frame, minConfidence float64, classFilter []int) ([]models.Detection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("inference on closed engine")
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return nil, fmt.Errorf("building input matrix: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(e.inputSize, e.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	e.net.SetInput(blob, "")
	output := e.net.Forward("")
	defer output.Close()

	return e.decode(&output, frame.Width, frame.Height, minConfidence, classFilter), nil
}

// Close releases the network handle.
func (e *DNNEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.net.Close()
}

// decode converts the raw YOLO output tensor (1 x (4+classes) x candidates)
// into pixel-space detections, applying the class filter, the coarse
// confidence floor, and non-maximum suppression.
func (e *DNNEngine) decode(output *gocv.Mat, frameW, frameH int, minConfidence float64, classFilter []int) []models.Detection {
	rows := 4 + len(e.classNames)
	flat := output.Reshape(1, rows)
	defer flat.Close()

	candidates := flat.Cols()
	wanted := make(map[int]bool, len(classFilter))
	for _, id := range classFilter {
		wanted[id] = true
	}

	scaleX := float32(frameW) / float32(e.inputSize)
	scaleY := float32(frameH) / float32(e.inputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for c := 0; c < candidates; c++ {
		bestID := -1
		bestScore := float32(0)
		for id := range e.classNames {
			if classFilter != nil && !wanted[id] {
				continue
			}
			score := flat.GetFloatAt(4+id, c)
			if score > bestScore {
				bestScore = score
				bestID = id
			}
		}
		if bestID < 0 || float64(bestScore) < minConfidence {
			continue
		}

		cx := flat.GetFloatAt(0, c) * scaleX
		cy := flat.GetFloatAt(1, c) * scaleY
		w := flat.GetFloatAt(2, c) * scaleX
		h := flat.GetFloatAt(3, c) * scaleY

		boxes = append(boxes, image.Rect(
			int(cx-w/2), int(cy-h/2),
			int(cx+w/2), int(cy+h/2),
		))
		scores = append(scores, bestScore)
		classIDs = append(classIDs, bestID)
	}

	if len(boxes) == 0 {
		return nil
	}

	kept := gocv.NMSBoxes(boxes, scores, float32(minConfidence), e.nmsIOU)

	detections := make([]models.Detection, 0, len(kept))
	for _, idx := range kept {
		box := boxes[idx]
		detections = append(detections, models.Detection{
			ClassID:    classIDs[idx],
			ClassName:  e.classNames[classIDs[idx]],
			Confidence: float64(scores[idx]),
			Box: models.BoundingBox{
				X:      box.Min.X,
				Y:      box.Min.Y,
				Width:  box.Dx(),
				Height: box.Dy(),
			},
		})
	}
	return detections
}

// readClassNames parses one class name per line, skipping blanks.
func readClassNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("class names %s: %v", path, err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("class names %s: %v", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("class names %s: empty file", path)
	}
	return names, nil
}
