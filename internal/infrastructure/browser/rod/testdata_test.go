package rod

// Test HTML fixtures
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	LayoutHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Layout</title>
	<link rel="stylesheet" href="/static/site.css">
</head>
<body>
	<nav id="top"><a href="/">Home</a></nav>
	<section id="hero">
		<h1>Build faster</h1>
		<p>Ship <span>today</span></p>
		<button id="cta">Start</button>
		<a role="button" href="/signup">Sign up</a>
	</section>
	<section>
		<h2>Features</h2>
		<ul><li>One</li><li>Two</li></ul>
		<form><input type="submit" value="Send"><input type="button" value="Reset"></form>
	</section>
</body>
</html>`

	SiteCSS = `body { color: rgb(10, 20, 30); }`

	LazyHTML = `<!DOCTYPE html>
<html>
<body style="margin:0">
	<div id="feed" style="height: 3000px;">top</div>
	<div id="sentinel">end</div>
	<script>
		const io = new IntersectionObserver(entries => {
			if (entries.some(e => e.isIntersecting) && !document.getElementById('late')) {
				const late = document.createElement('section');
				late.id = 'late';
				late.innerHTML = '<h2>Loaded late</h2>';
				document.body.appendChild(late);
			}
		});
		io.observe(document.getElementById('sentinel'));
	</script>
</body>
</html>`

	PollingHTML = `<!DOCTYPE html>
<html>
<body>
	<h1>Never idle</h1>
	<script>
		setInterval(() => { fetch('/poll?' + Date.now()).catch(() => {}); }, 100);
	</script>
</body>
</html>`
)
