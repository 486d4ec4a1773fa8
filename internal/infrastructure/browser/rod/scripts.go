package rod

const (
	documentHTMLJS = `() => {
	const dt = document.doctype;
	const doctype = dt ? new XMLSerializer().serializeToString(dt) : '';
	return doctype + document.documentElement.outerHTML;
}`

	scrollHeightJS = `() => (document.body || document.documentElement).scrollHeight`

	viewportHeightJS = `() => window.innerHeight`

	scrollToJS = `(y) => window.scrollTo(0, y)`

	scrollToBottomJS = `() => window.scrollTo(0, (document.body || document.documentElement).scrollHeight)`

	stylesheetLinksJS = `() => Array.from(document.querySelectorAll('link[rel="stylesheet"]')).map(l => l.href)`

	// Every image settles on load, on error, or after its own budget.
	waitImagesJS = `async (budget) => {
	const images = Array.from(document.querySelectorAll('img'));
	await Promise.all(images.map(img => {
		if (img.complete) return null;
		return new Promise(resolve => {
			img.addEventListener('load', resolve, { once: true });
			img.addEventListener('error', resolve, { once: true });
			setTimeout(resolve, budget);
		});
	}));
	return images.length;
}`

	// readyState >= 1 is HAVE_METADATA.
	waitVideosJS = `async (budget) => {
	const videos = Array.from(document.querySelectorAll('video'));
	await Promise.all(videos.map(video => {
		if (video.readyState >= 1) return null;
		return new Promise(resolve => {
			video.addEventListener('loadedmetadata', resolve, { once: true });
			video.addEventListener('error', resolve, { once: true });
			setTimeout(resolve, budget);
		});
	}));
	return videos.length;
}`

	layoutJS = `() => {
	const styles = el => {
		const s = window.getComputedStyle(el);
		return {
			color: s.color,
			background: s.background,
			fontSize: s.fontSize,
			fontWeight: s.fontWeight,
			fontFamily: s.fontFamily,
			border: s.border,
			margin: s.margin,
			padding: s.padding,
			display: s.display,
		};
	};
	const collect = (selector, withText) => Array.from(document.querySelectorAll(selector)).map(el => {
		const item = { tag: el.tagName.toLowerCase(), html: el.outerHTML, styles: styles(el) };
		if (withText) item.text = el.innerText || '';
		return item;
	});
	return {
		navs: collect('nav', false),
		sections: collect('section', false),
		buttons: collect('button, a[role=button], input[type=button], input[type=submit]', true),
		headings: collect('h1, h2, h3, h4, h5, h6', true),
		textBlocks: collect('p, span, li', true),
	};
}`
)
