package dompdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/porticus-lab/go-dom-pdf/geometry"
)

// rootAttr marks the element being exported; wrapAttr marks the adaptive
// container mounted around its clone.
const (
	rootAttr = "data-dompdf-root"
	wrapAttr = "data-dompdf-wrap"
)

const mountScript = `(function (a) {
  var src = document.querySelector(a.selector);
  if (!src) return false;
  var root = src;
  if (a.adaptive) {
    var parent = document.querySelector(a.parent) || document.body;
    var wrap = document.createElement("div");
    wrap.setAttribute(a.wrapAttr, "");
    wrap.style.cssText = "position:absolute;left:0;top:0;margin:0;padding:0;" +
      "z-index:2147483647;background:#fff;width:" + a.width + "px";
    root = src.cloneNode(true);
    wrap.appendChild(root);
    parent.appendChild(wrap);
  }
  root.setAttribute(a.rootAttr, "");
  return true;
})(%s)`

const resetViewScript = `(function (el) {
%s
  return true;
})(document.querySelector("[` + rootAttr + `]"))`

const resetStyleScript = `(function (tags) {
  var root = document.querySelector("[` + rootAttr + `]");
  root.querySelectorAll(tags.join(",")).forEach(function (el) {
    var s = getComputedStyle(el);
    el.style.margin = [s.marginTop, s.marginRight, s.marginBottom, s.marginLeft].join(" ");
  });
  return true;
})(%s)`

// awaitImagesScript resolves to the number of images that failed to load.
const awaitImagesScript = `(function () {
  var root = document.querySelector("[` + rootAttr + `]");
  var images = Array.prototype.slice.call(root.querySelectorAll("img"));
  return Promise.all(images.map(function (img) {
    if (getComputedStyle(img).display !== "block") img.style.verticalAlign = "bottom";
    if (img.complete) return Promise.resolve(img.naturalWidth > 0 ? 0 : 1);
    return new Promise(function (resolve) {
      img.addEventListener("load", function () { resolve(0); }, { once: true });
      img.addEventListener("error", function () { resolve(1); }, { once: true });
    });
  })).then(function (r) {
    return r.reduce(function (a, b) { return a + b; }, 0);
  });
})()`

const snapshotScript = `(function () {
  function walk(el) {
    var r = el.getBoundingClientRect();
    var s = getComputedStyle(el);
    var kids = [];
    for (var i = 0; i < el.children.length; i++) kids.push(walk(el.children[i]));
    return {
      tag: el.tagName.toLowerCase(),
      classes: Array.prototype.slice.call(el.classList),
      left: r.left + window.scrollX,
      top: r.top + window.scrollY,
      width: r.width,
      height: r.height,
      lineHeight: s.lineHeight,
      fontSize: s.fontSize,
      children: kids
    };
  }
  return walk(document.querySelector("[` + rootAttr + `]"));
})()`

const rectScript = `(function (selector) {
  var el = document.querySelector(selector);
  if (!el) return null;
  var r = el.getBoundingClientRect();
  return { tag: el.tagName.toLowerCase(), left: r.left + window.scrollX,
    top: r.top + window.scrollY, width: r.width, height: r.height };
})(%s)`

const cleanupScript = `(function () {
  document.querySelectorAll("[` + wrapAttr + `]").forEach(function (w) { w.remove(); });
  document.querySelectorAll("[` + rootAttr + `]").forEach(function (el) { el.removeAttribute("` + rootAttr + `"); });
  return true;
})()`

// script fills the single %s of tmpl with arg as a JavaScript literal.
func script(tmpl string, arg any) string {
	b, err := json.Marshal(arg)
	if err != nil {
		// Only strings, numbers and slices of them are passed.
		panic(err)
	}
	return fmt.Sprintf(tmpl, b)
}

type mountArgs struct {
	Selector string  `json:"selector"`
	Adaptive bool    `json:"adaptive"`
	Width    float64 `json:"width"`
	Parent   string  `json:"parent"`
	RootAttr string  `json:"rootAttr"`
	WrapAttr string  `json:"wrapAttr"`
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// capture lays out the root element described by o in the tab behind ctx
// and rasterizes it. The page is restored before capture returns.
func capture(ctx context.Context, o ExportOptions, logger *slog.Logger) (c Capture, err error) {
	var found bool
	mount := mountArgs{
		Selector: o.Selector,
		Adaptive: !o.DisableAdaptive,
		Width:    o.AdaptiveWidth,
		Parent:   o.ParentSelector,
		RootAttr: rootAttr,
		WrapAttr: wrapAttr,
	}
	if err := chromedp.Run(ctx, chromedp.Evaluate(script(mountScript, mount), &found)); err != nil {
		return c, fmt.Errorf("%w: mounting %q: %w", ErrRender, o.Selector, err)
	}
	if !found {
		return c, fmt.Errorf("%w: no element matches %q", ErrInvalidInput, o.Selector)
	}
	defer func() {
		var ok bool
		if cerr := chromedp.Run(ctx, chromedp.Evaluate(cleanupScript, &ok)); cerr != nil {
			logger.Warn("restoring page failed", "error", cerr)
		}
	}()

	var ok bool
	if o.ResetViewScript != "" {
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(fmt.Sprintf(resetViewScript, o.ResetViewScript), &ok, awaitPromise),
			chromedp.Sleep(o.ResetViewDelay),
		); err != nil {
			return c, fmt.Errorf("%w: reset view script: %w", ErrRender, err)
		}
	}

	var failed int
	var root geometry.Element
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(script(resetStyleScript, o.ResetStyleTags), &ok),
		chromedp.Evaluate(awaitImagesScript, &failed, awaitPromise),
		chromedp.Evaluate(snapshotScript, &root),
	); err != nil {
		return c, fmt.Errorf("%w: snapshot: %w", ErrRender, err)
	}
	if failed > 0 {
		logger.Warn("images failed to load", "count", failed, "selector", o.Selector)
	}
	if root.Width <= 0 || root.Height <= 0 {
		return c, fmt.Errorf("%w: %q has no size", ErrEmptyResult, o.Selector)
	}
	logger.Debug("captured geometry",
		"selector", o.Selector,
		"width", root.Width,
		"height", root.Height,
		"nodes", root.Count())

	master, err := screenshot(ctx, &root, o.Scale)
	if err != nil {
		return c, fmt.Errorf("%w: capturing %q: %w", ErrRender, o.Selector, err)
	}
	c = Capture{Master: master, Root: &root}
	c.CoverElement = captureElement(ctx, o.CoverSelector, o.Scale, logger)
	c.BackcoverElement = captureElement(ctx, o.BackcoverSelector, o.Scale, logger)
	return c, nil
}

// captureElement rasterizes the element matching selector in place. A
// missing or empty element is logged and skipped.
func captureElement(ctx context.Context, selector string, scale float64, logger *slog.Logger) image.Image {
	if strings.TrimSpace(selector) == "" {
		return nil
	}
	var rect *geometry.Element
	if err := chromedp.Run(ctx, chromedp.Evaluate(script(rectScript, selector), &rect)); err != nil {
		logger.Warn("cover element skipped", "selector", selector, "error", err)
		return nil
	}
	if rect == nil || rect.Width <= 0 || rect.Height <= 0 {
		logger.Warn("cover element skipped", "selector", selector, "error", "no visible element")
		return nil
	}
	img, err := screenshot(ctx, rect, scale)
	if err != nil {
		logger.Warn("cover element skipped", "selector", selector, "error", err)
		return nil
	}
	return img
}

// screenshot captures the document region covered by e at scale device
// pixels per CSS pixel.
func screenshot(ctx context.Context, e *geometry.Element, scale float64) (image.Image, error) {
	var buf []byte
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      e.Left,
				Y:      e.Top,
				Width:  e.Width,
				Height: e.Height,
				Scale:  scale,
			}).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(buf))
}
