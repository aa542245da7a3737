package view

const pageHTML = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: system-ui, sans-serif; background: #f4f5f7; margin: 0; }
  .container { max-width: 480px; margin: 40px auto; background: #fff; border-radius: 12px; box-shadow: 0 2px 12px rgba(0,0,0,.08); overflow: hidden; }
  header { background: #4a7dff; color: #fff; padding: 20px 24px; }
  header h1 { margin: 0; font-size: 22px; }
  .input-row { display: flex; gap: 8px; padding: 16px 24px; border-bottom: 1px solid #eee; }
  #itemInput { flex: 1; padding: 10px 12px; font-size: 15px; border: 1px solid #ccd; border-radius: 8px; }
  .input-row button { padding: 10px 16px; border: 0; border-radius: 8px; background: #4a7dff; color: #fff; font-size: 15px; cursor: pointer; }
  ul { list-style: none; margin: 0; padding: 0; }
  .list-item { display: flex; align-items: center; gap: 12px; padding: 12px 24px; border-bottom: 1px solid #f0f0f0; }
  .list-item form { margin: 0; }
  .checkbox { width: 22px; height: 22px; border: 2px solid #99a; border-radius: 6px; background: #fff; cursor: pointer; padding: 0; line-height: 18px; }
  .list-item.checked .checkbox { background: #4a7dff; border-color: #4a7dff; color: #fff; }
  .item-text { flex: 1; word-break: break-word; }
  .list-item.checked .item-text { text-decoration: line-through; color: #999; }
  .delete-btn { border: 0; background: none; color: #d33; cursor: pointer; font-size: 14px; }
  .empty-state { padding: 32px 24px; text-align: center; color: #999; }
  #stats { padding: 12px 24px; font-size: 13px; color: #667; background: #fafbfc; }
</style>
</head>
<body>
<div class="container">
  <header><h1>{{.Title}}</h1></header>
  <form class="input-row" method="post" action="/items">
    <input id="itemInput" name="text" type="text" placeholder="아이템을 입력하세요" autocomplete="off" autofocus>
    <button type="submit">추가</button>
  </form>
  {{- if .Empty}}
  <div class="empty-state">리스트가 비어있습니다</div>
  {{- else}}
  <ul id="itemList">
    {{- range .Rows}}
    <li class="list-item{{if .Completed}} checked{{end}}" data-id="{{.ID}}">
      <form method="post" action="/items/{{.ID}}/toggle">
        <button type="submit" class="checkbox" role="checkbox" aria-checked="{{if .Completed}}true{{else}}false{{end}}" aria-label="완료 표시">{{if .Completed}}✓{{end}}</button>
      </form>
      <span class="item-text">{{.Text}}</span>
      <form method="post" action="/items/{{.ID}}/delete">
        <button type="submit" class="delete-btn">삭제</button>
      </form>
    </li>
    {{- end}}
  </ul>
  {{- end}}
  <div id="stats">{{.Summary}}</div>
</div>
</body>
</html>
`
