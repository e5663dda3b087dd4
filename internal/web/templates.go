package web

const indexHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    {{if .Loading}}<meta http-equiv="refresh" content="1" />{{end}}
    <title>Searchable dropdown menu</title>
  </head>
  <body>
    <main>
      <h1>Searchable dropdown menu</h1>
      <p id="status" data-state="{{.State}}">{{.State.Title}}</p>

      <form id="category-form" method="post" action="/category">
        <label for="category_id">Select a category</label>
        <select id="category_id" name="category_id" onchange="this.form.submit()">
          <option value="">-</option>
          {{range .Categories}}
          <option value="{{.ID}}"{{if $.IsSelectedCategory .ID}} selected{{end}}>{{.Name}}</option>
          {{end}}
        </select>
        <noscript><button type="submit">Choose</button></noscript>
      </form>

      {{if .ShowSubCategories}}
      <form id="sub-category-form" method="post" action="/subcategories">
        <label for="sub_category_id">Select a sub-category</label>
        <select id="sub_category_id" name="sub_category_id" multiple>
          {{range .SubCategories}}
          <option value="{{.ID}}"{{if $.IsSelectedSubCategory .ID}} selected{{end}}>{{.Name}}</option>
          {{end}}
        </select>
        <button type="submit">Load options</button>
      </form>
      {{end}}

      {{if .Loading}}<p id="loading">Loading options…</p>{{end}}

      {{if .ShowOptions}}
      <section id="options">
        <h2>Select options</h2>
        {{range .OptionGroups}}
        <form class="option-group" method="post" action="/selection">
          <input type="hidden" name="group" value="{{.Name}}" />
          <label>{{.Name}}</label>
          <select name="option_id">
            {{range .Options}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
          </select>
          <input type="text" name="other_text" placeholder="{{$.OtherLabel}}" />
          <button type="submit">Add</button>
        </form>
        {{end}}
      </section>
      {{end}}

      {{if .Selections}}
      <ul id="selections">
        {{range .Selections}}<li>{{.Key}}: {{.Display}}</li>{{end}}
      </ul>
      {{end}}

      <form id="submit-form" method="post" action="/submit">
        <button type="submit">Submit</button>
      </form>

      {{if .Submitted}}
      <table id="results">
        <thead>
          <tr><th>Group</th><th>Value</th></tr>
        </thead>
        <tbody>
          {{range .Results}}<tr><td>{{.Key}}</td><td>{{.Display}}</td></tr>{{end}}
        </tbody>
      </table>
      {{end}}
    </main>
  </body>
</html>
`
