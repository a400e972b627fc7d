package web

const pageCSS = `
* { box-sizing: border-box; }
body { font-family: 'Inter', -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; background: #f7fafc; color: #1a202c; margin: 0; padding: 2rem 1rem; }
.squash-trivia-wrapper { max-width: 1200px; margin: 0 auto; }
header { text-align: center; margin-bottom: 2rem; }
h1 { font-size: 2.5rem; margin: 0 0 .5rem; }
.subtitle { color: #718096; }
.trivia-section { background: #fff; border-radius: .75rem; box-shadow: 0 1px 3px rgba(0,0,0,.1); padding: 1.5rem; margin-bottom: 2rem; }
.trivia-section h2 { margin-top: 0; }
.trivia-loading { color: #718096; text-align: center; padding: 2rem 0; }
.trivia-error { color: #c53030; background: #fff5f5; border: 1px solid #feb2b2; border-radius: .5rem; padding: 1rem; }
.trivia-stats { display: flex; gap: 1.5rem; flex-wrap: wrap; margin-bottom: 1rem; }
.stat-item { display: flex; flex-direction: column; }
.stat-value { font-size: 1.75rem; font-weight: 700; color: #667eea; }
.stat-label { font-size: .85rem; color: #718096; }
.trivia-map { height: 420px; border-radius: .5rem; margin: 1rem 0; }
.trivia-tabs { display: flex; gap: .5rem; margin: 1rem 0; }
.trivia-tab { border: 1px solid #cbd5e0; background: #fff; padding: .4rem 1rem; border-radius: .375rem; cursor: pointer; }
.trivia-tab.active { background: #667eea; color: #fff; border-color: #667eea; }
.trivia-filters { display: flex; gap: 1rem; margin: 1rem 0; }
.trivia-table { width: 100%; border-collapse: collapse; font-size: .9rem; }
.trivia-table th, .trivia-table td { padding: .5rem; border-bottom: 1px solid #e2e8f0; text-align: left; }
.trivia-table.sortable th { cursor: pointer; user-select: none; }
.trivia-table th.sorted-asc::after { content: ' ▲'; }
.trivia-table th.sorted-desc::after { content: ' ▼'; }
.trivia-table tfoot td { font-weight: 700; }
.tab-content.hidden { display: none; }
.tab-content.active { display: block; }
tr.visitor-country { background: #fefcbf; }
.elevation-badge, .latitude-badge, .distance-badge, .courts-badge, .death-badge { display: inline-block; padding: .15rem .5rem; border-radius: 9999px; font-size: .8rem; background: #edf2f7; }
.death-closed { background: #fed7d7; }
.death-duplicate { background: #feebc8; }
.death-never-existed { background: #e9d8fd; }
.death-other { background: #e2e8f0; }
.cloud-legend { display: flex; flex-wrap: wrap; gap: .5rem; align-items: center; margin-bottom: 1rem; }
.cloud-legend .badge { padding: .2rem .6rem; border-radius: .375rem; color: #fff; font-size: .8rem; }
.word-cloud { width: 100%; height: auto; }
.view-list-link { display: inline-block; margin-bottom: 1rem; }
.modal-overlay { position: fixed; inset: 0; background: rgba(0,0,0,.5); display: flex; align-items: center; justify-content: center; z-index: 2000; }
.modal-content { background: #fff; border-radius: .75rem; padding: 1.5rem; max-width: 600px; max-height: 80vh; overflow-y: auto; }
.modal-content ul { columns: 2; }
.modal-hint { color: #718096; font-size: .8rem; }
`

// pageJS：取片段、挂载地图与词云、转发交互动作
// 约束：同一挂载点重建地图前先 remove 旧实例；弹窗文本经 textContent 写入
const pageJS = `
(function() {
    'use strict';

    var root = document.querySelector('.squash-trivia-wrapper');
    if (!root) return;
    var sid = root.getAttribute('data-sid');
    var maps = {};

    function base(section) {
        return '/s/' + encodeURIComponent(sid) + '/sections/' + encodeURIComponent(section);
    }

    function sectionOf(el) {
        var s = el.closest('.trivia-section');
        return s ? s.getAttribute('data-section') : '';
    }

    function body(section) {
        return document.querySelector('.trivia-section[data-section="' + section + '"] .trivia-body');
    }

    function request(section, path, opts) {
        return fetch(base(section) + path, opts).then(function(res) {
            if (res.status === 404 && res.headers.get('X-Session-Expired')) {
                throw new Error('This page has expired. Please reload.');
            }
            return res.text().then(function(html) { return { status: res.status, html: html }; });
        });
    }

    function show(section, r) {
        var el = body(section);
        if (!el) return;
        if (r.status >= 400 && r.status !== 500) return;
        el.innerHTML = r.html;
        el.querySelectorAll('script.map-spec').forEach(function(s) { drawMap(JSON.parse(s.textContent)); });
        el.querySelectorAll('script.cloud-spec').forEach(function(s) { drawCloud(JSON.parse(s.textContent)); });
        if (r.status === 202) {
            setTimeout(function() { load(section); }, 1000);
        }
    }

    function fail(section, err) {
        var el = body(section);
        if (!el) return;
        var div = document.createElement('div');
        div.className = 'trivia-error';
        div.textContent = err.message;
        el.innerHTML = '';
        el.appendChild(div);
    }

    function load(section) {
        request(section, '').then(function(r) { show(section, r); }, function(err) { fail(section, err); });
    }

    function post(section, path, form) {
        var opts = { method: 'POST' };
        if (form) {
            opts.body = new URLSearchParams(form);
        }
        request(section, path, opts).then(function(r) { show(section, r); }, function(err) { fail(section, err); });
    }

    function popup(p) {
        var div = document.createElement('div');
        var title = document.createElement('strong');
        title.textContent = p.title;
        div.appendChild(title);
        (p.lines || []).forEach(function(line) {
            div.appendChild(document.createElement('br'));
            div.appendChild(document.createTextNode(line));
        });
        return div;
    }

    function drawMap(spec) {
        if (typeof L === 'undefined') return;
        if (maps[spec.mount]) {
            maps[spec.mount].remove();
            delete maps[spec.mount];
        }
        var map = L.map(spec.mount).setView(spec.center, spec.zoom);
        L.tileLayer(spec.tiles.url, { attribution: spec.tiles.attribution, maxZoom: spec.tiles.maxZoom }).addTo(map);
        (spec.lines || []).forEach(function(l) {
            L.polyline([l.from, l.to], l.style).addTo(map);
        });
        (spec.markers || []).forEach(function(m) {
            L.circleMarker(m.at, {
                radius: m.radius,
                fillColor: m.fillColor,
                color: m.color,
                weight: m.weight,
                opacity: m.opacity,
                fillOpacity: m.fillOpacity
            }).bindPopup(popup(m.popup)).addTo(map);
        });
        if (spec.bounds) {
            map.fitBounds(spec.bounds, { padding: [spec.padding, spec.padding] });
        }
        maps[spec.mount] = map;
    }

    function drawCloud(spec) {
        var canvas = document.getElementById(spec.mount);
        if (!canvas || typeof WordCloud === 'undefined') return;
        var o = spec.options;
        var colors = {};
        spec.list.forEach(function(w) { colors[w[0]] = w[2]; });
        WordCloud(canvas, {
            list: spec.list,
            gridSize: o.gridSize,
            weightFactor: function(size) { return Math.pow(size, o.exponent) * o.scale; },
            fontFamily: o.fontFamily,
            color: function(word) { return colors[word]; },
            rotateRatio: o.rotateRatio,
            backgroundColor: o.backgroundColor
        });
    }

    root.addEventListener('click', function(e) {
        var th = e.target.closest('table.sortable th[data-col]');
        if (th) {
            var table = th.closest('table');
            post(sectionOf(th), '/sort', { table: table.id, col: th.getAttribute('data-col') });
            return;
        }
        var tab = e.target.closest('.trivia-tab');
        if (tab) {
            post(sectionOf(tab), '/tab', { tab: tab.getAttribute('data-tab') });
            return;
        }
        var action = e.target.closest('[data-action]');
        if (!action) return;
        var section = sectionOf(action);
        switch (action.getAttribute('data-action')) {
        case 'retry':
            e.preventDefault();
            post(section, '/retry');
            break;
        case 'list':
            e.preventDefault();
            request(section, '/list').then(function(r) {
                if (r.status !== 200) return;
                var holder = document.createElement('div');
                holder.innerHTML = r.html;
                var overlay = holder.firstElementChild;
                overlay.addEventListener('click', function() { overlay.remove(); });
                document.body.appendChild(overlay);
            });
            break;
        }
    });

    root.addEventListener('change', function(e) {
        var sel = e.target.closest('select[data-filter]');
        if (!sel) return;
        var section = sectionOf(sel);
        sel.closest('.trivia-filters').querySelectorAll('select[data-filter]').forEach(function(other) {
            if (other !== sel) other.value = '';
        });
        post(section, '/filter', { type: sel.getAttribute('data-filter'), value: sel.value });
    });

    document.querySelectorAll('.trivia-section').forEach(function(s) {
        load(s.getAttribute('data-section'));
    });
})();
`
