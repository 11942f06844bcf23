package director

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"honnef.co/go/curve"

	"github.com/san-kum/fourierforge/internal/camera"
)

var _ = Describe("Smoothstep", func() {
	It("is pinned at both ends", func() {
		Expect(Smoothstep(0)).To(Equal(0.0))
		Expect(Smoothstep(1)).To(Equal(1.0))
		Expect(Smoothstep(0.5)).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("clamps outside the unit interval", func() {
		Expect(Smoothstep(-3)).To(Equal(0.0))
		Expect(Smoothstep(7)).To(Equal(1.0))
	})
})

var _ = Describe("ZoomAt", func() {
	const maxZoom = 15.0

	It("starts at the identity view", func() {
		Expect(ZoomAt(0, maxZoom)).To(BeNumerically("~", 1, 1e-12))
	})

	It("has not reached the held value just before the hold phase", func() {
		Expect(ZoomAt(ZoomInEnd-1e-3, maxZoom)).To(BeNumerically("<", maxZoom))
		Expect(ZoomAt(ZoomInEnd-1e-3, maxZoom)).To(BeNumerically(">", 1))
	})

	It("holds the maximum from the hold boundary on", func() {
		Expect(ZoomAt(ZoomInEnd, maxZoom)).To(Equal(maxZoom))
		Expect(ZoomAt(0.5, maxZoom)).To(Equal(maxZoom))
		Expect(ZoomAt(HoldEnd, maxZoom)).To(BeNumerically("~", maxZoom, 1e-12))
	})

	It("is back to 1 just before the wrap", func() {
		Expect(ZoomAt(0.99999, maxZoom)).To(BeNumerically("~", 1, 1e-6))
		Expect(ZoomAt(0.999, maxZoom)).To(BeNumerically("~", 1, 1e-2))
	})

	It("never leaves the [1, max] band", func() {
		for t := 0.0; t < 1; t += 0.001 {
			z := ZoomAt(t, maxZoom)
			Expect(z).To(BeNumerically(">=", 1-1e-12))
			Expect(z).To(BeNumerically("<=", maxZoom+1e-12))
		}
	})
})

var _ = Describe("Director", func() {
	var (
		d           *Director
		cam         *camera.Camera
		transitions [][2]Phase
	)

	BeforeEach(func() {
		transitions = nil
		d = New(15)
		d.OnPhase = func(from, to Phase) {
			transitions = append(transitions, [2]Phase{from, to})
		}
		cam = camera.New()
	})

	It("leaves the camera alone while idle", func() {
		cam.Pan = curve.Vec(3, 4)
		d.Apply(0.5, cam)
		Expect(cam.Zoom).To(Equal(1.0))
		Expect(cam.Pan).To(Equal(curve.Vec(3, 4)))
		Expect(d.Active()).To(BeFalse())
	})

	It("walks the three phases in order over one cycle", func() {
		d.Engage()
		for t := 0.0; t < 1; t += 0.01 {
			d.Apply(t, cam)
		}
		Expect(transitions).To(Equal([][2]Phase{
			{Idle, ZoomIn},
			{ZoomIn, Hold},
			{Hold, ZoomOut},
		}))
		Expect(d.Phase()).To(Equal(ZoomOut))
	})

	It("forces auto-follow while zooming in and holding", func() {
		d.Engage()
		d.Apply(0.05, cam)
		Expect(cam.AutoFollow).To(BeTrue())
		Expect(d.Phase()).To(Equal(ZoomIn))

		cam.AutoFollow = false
		d.Apply(0.4, cam)
		Expect(cam.AutoFollow).To(BeTrue())
		Expect(cam.Zoom).To(Equal(15.0))
	})

	It("hands the pan to the director when zooming out", func() {
		d.Engage()
		d.Apply(0.5, cam)
		cam.Pan = curve.Vec(100, -200)

		d.Apply(0.9, cam)
		Expect(cam.AutoFollow).To(BeFalse())
		Expect(cam.Pan.X).To(BeNumerically("~", 95, 1e-9))
		Expect(cam.Pan.Y).To(BeNumerically("~", -190, 1e-9))
	})

	It("restarts from the zoom-in phase after a wrap", func() {
		d.Engage()
		d.Apply(0.95, cam)
		d.Apply(0.01, cam)
		Expect(d.Phase()).To(Equal(ZoomIn))
		Expect(cam.AutoFollow).To(BeTrue())
	})

	It("stops on disengage", func() {
		d.Engage()
		d.Apply(0.5, cam)
		d.Disengage()
		Expect(d.Active()).To(BeFalse())
		Expect(d.Phase()).To(Equal(Idle))

		cam.Reset()
		d.Apply(0.5, cam)
		Expect(cam.Zoom).To(Equal(1.0))
	})
})

var _ = DescribeTable("PhaseAt",
	func(t float64, want Phase) {
		Expect(PhaseAt(t)).To(Equal(want))
	},
	Entry("start", 0.0, ZoomIn),
	Entry("just before hold", 0.0999, ZoomIn),
	Entry("hold boundary", 0.1, Hold),
	Entry("mid cycle", 0.5, Hold),
	Entry("zoom-out boundary", 0.85, ZoomOut),
	Entry("end", 0.999, ZoomOut),
)
