package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// DiscoveryHead loads Leaflet for the map page.
func DiscoveryHead() templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">`)
		b.raw(`<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js" defer></script>`)
	})
}

// The script centers on the browser position, or Recife when geolocation
// is refused, and plots whatever the nearby endpoint returns.
const discoveryScript = `<script>
window.addEventListener("load", function () {
  var status = document.getElementById("map-status");
  var list = document.getElementById("nearby");
  var map = L.map("map").setView([-8.0476, -34.877], 12);
  L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
    attribution: "&copy; OpenStreetMap contributors"
  }).addTo(map);
  function text(s) { var d = document.createElement("div"); d.textContent = s; return d.innerHTML; }
  function load(lat, lng) {
    map.setView([lat, lng], 12);
    status.textContent = status.dataset.loading;
    fetch("` + routepath.DiscoveryNearby + `?lat=" + lat + "&lng=" + lng, {headers: {"Accept": "application/json"}})
      .then(function (r) { return r.json().then(function (body) { return {ok: r.ok, body: body}; }); })
      .then(function (res) {
        if (!res.ok) { status.textContent = res.body.message || status.dataset.failed; return; }
        var events = res.body.events || [];
        status.textContent = res.body.place ? res.body.place : "";
        list.innerHTML = "";
        events.forEach(function (ev) {
          var link = "/events/" + encodeURIComponent(ev.id);
          var html = '<a href="' + link + '">' + text(ev.title) + "</a>";
          if (ev.address && ev.address.lat != null && ev.address.lng != null) {
            L.marker([ev.address.lat, ev.address.lng]).addTo(map).bindPopup(html);
          }
          var li = document.createElement("li");
          li.innerHTML = html + " <span class=\"muted\">" + text(ev.dateLabel || "") + "</span>";
          list.appendChild(li);
        });
        if (events.length === 0) { status.textContent = status.dataset.empty; }
      })
      .catch(function () { status.textContent = status.dataset.failed; });
  }
  if (navigator.geolocation) {
    navigator.geolocation.getCurrentPosition(
      function (pos) { load(pos.coords.latitude, pos.coords.longitude); },
      function () { load(-8.0476, -34.877); }
    );
  } else {
    load(-8.0476, -34.877);
  }
});
</script>`

// Discovery is the map page body.
func Discovery(loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<h1>`)
		b.text(T(loc, "web.discovery.heading"))
		b.raw(`</h1><p class="muted" id="map-status" data-loading="`)
		b.text(T(loc, "web.discovery.loading"))
		b.raw(`" data-empty="`)
		b.text(T(loc, "web.discovery.empty"))
		b.raw(`" data-failed="`)
		b.text(T(loc, "web.discovery.failed"))
		b.raw(`"></p><div id="map"></div><ul id="nearby"></ul>`)
		b.raw(discoveryScript)
	})
}
